package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"classhub/internal/repository"
	pkgerrors "classhub/pkg/errors"
)

// ── 导出模块业务错误 ──

var (
	ErrExportNoSubmissions = errors.New("该作业暂无提交")
	ErrExportGenerateFail  = errors.New("生成 Excel 文件失败")
)

// ExportService 导出业务接口
//
// 设计说明：
//   - 将某作业的全部提交导出为 Excel (.xlsx)，供教师离线批改登记
//   - 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
type ExportService interface {
	// ExportSubmissions 导出某作业的提交清单为 Excel
	ExportSubmissions(ctx context.Context, assignmentID string) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

// ExportSubmissions — 导出提交清单
//
// 输出格式：
//   - 单 Sheet "提交清单"
//   - 表头: | 序号 | 学号 | 姓名 | 提交文件 | 提交时间 |
//   - 按提交时间倒序（与提交列表一致）
//
// 返回值：buf（Excel 内容）, filename（建议文件名）, error
func (s *exportService) ExportSubmissions(ctx context.Context, assignmentID string) (*bytes.Buffer, string, error) {
	// 1. 作业必须存在
	assignment, err := s.repo.Assignment.GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrNotFound) {
			return nil, "", ErrAssignmentNotFound
		}
		s.logger.Error("查询作业失败", zap.Error(err))
		return nil, "", err
	}

	// 2. 查询提交明细
	subs, err := s.repo.Submission.ListWithDetails(ctx, repository.SubmissionFilters{
		AssignmentID: assignmentID,
	})
	if err != nil {
		s.logger.Error("查询提交明细失败", zap.Error(err))
		return nil, "", err
	}
	if len(subs) == 0 {
		return nil, "", ErrExportNoSubmissions
	}

	// 3. 生成 Excel
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "提交清单"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(sheetName, "A", "A", 6)
	f.SetColWidth(sheetName, "B", "B", 16)
	f.SetColWidth(sheetName, "C", "C", 14)
	f.SetColWidth(sheetName, "D", "D", 32)
	f.SetColWidth(sheetName, "E", "E", 20)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// 标题行
	f.SetCellValue(sheetName, "A1", fmt.Sprintf("%s — 提交清单", assignment.Title))
	f.MergeCell(sheetName, "A1", "E1")
	f.SetCellStyle(sheetName, "A1", "A1", headerStyle)

	// 表头
	headers := []string{"序号", "学号", "姓名", "提交文件", "提交时间"}
	for i, h := range headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetCellValue(sheetName, fmt.Sprintf("%s2", col), h)
	}

	// 数据行
	row := 3
	for i, sub := range subs {
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), i+1)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), sub.StudentUsername)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), sub.StudentName)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), sub.Filename)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), sub.CreatedAt.Format(time.DateTime))
		row++
	}

	// 写入 buffer
	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("提交清单_%s.xlsx", assignment.Title)
	return buf, filename, nil
}
