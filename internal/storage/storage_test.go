package storage

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"classhub/config"
)

func newTestManager(t *testing.T, maxUploadMB int64) *Manager {
	t.Helper()
	base := t.TempDir()
	m, err := NewManager(&config.StorageConfig{
		AssignmentDir: filepath.Join(base, "assignments"),
		SubmissionDir: filepath.Join(base, "submissions"),
		ChallengeDir:  filepath.Join(base, "challenges"),
		MaxUploadMB:   maxUploadMB,
	}, zap.NewNop())
	if err != nil {
		t.Fatalf("创建存储管理器失败: %v", err)
	}
	return m
}

// makeFileHeader 构造真实的 multipart.FileHeader
func makeFileHeader(t *testing.T, filename, content string) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("构造表单失败: %v", err)
	}
	fw.Write([]byte(content))
	mw.Close()

	req := httptest.NewRequest("POST", "/", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if err := req.ParseMultipartForm(32 << 20); err != nil {
		t.Fatalf("解析表单失败: %v", err)
	}
	return req.MultipartForm.File["file"][0]
}

func TestSave_Success(t *testing.T) {
	m := newTestManager(t, 1)
	fh := makeFileHeader(t, "report v2.pdf", "pdf-bytes")

	saved, err := m.Save(KindAssignment, fh)
	if err != nil {
		t.Fatalf("保存失败: %v", err)
	}

	// 存储名格式: <uuid>_<净化后原名>
	if !strings.HasSuffix(saved.Filename, "_report_v2.pdf") {
		t.Errorf("存储名应为 uuid 前缀加净化原名，实际: %s", saved.Filename)
	}
	if filepath.Base(saved.Path) != saved.Filename {
		t.Errorf("Path 末段应为存储名，实际: %s", saved.Path)
	}

	data, err := os.ReadFile(saved.Path)
	if err != nil {
		t.Fatalf("读取落盘文件失败: %v", err)
	}
	if string(data) != "pdf-bytes" {
		t.Errorf("落盘内容不一致，实际: %q", data)
	}
}

func TestSave_UniqueNames(t *testing.T) {
	m := newTestManager(t, 1)

	a, err := m.Save(KindSubmission, makeFileHeader(t, "homework.txt", "first"))
	if err != nil {
		t.Fatalf("保存失败: %v", err)
	}
	b, err := m.Save(KindSubmission, makeFileHeader(t, "homework.txt", "second"))
	if err != nil {
		t.Fatalf("保存失败: %v", err)
	}

	if a.Path == b.Path {
		t.Error("同名上传不应互相覆盖")
	}
}

func TestSave_RejectsExtension(t *testing.T) {
	m := newTestManager(t, 1)

	tests := []string{"virus.exe", "script.sh", "noext", "archive.tar.gz"}
	for _, name := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := m.Save(KindSubmission, makeFileHeader(t, name, "x"))
			if !errors.Is(err, ErrExtensionNotAllowed) {
				t.Errorf("期望 ErrExtensionNotAllowed，实际: %v", err)
			}
		})
	}
}

func TestSave_RejectsOversize(t *testing.T) {
	m := newTestManager(t, 1)
	big := strings.Repeat("a", (1<<20)+1)

	_, err := m.Save(KindSubmission, makeFileHeader(t, "big.txt", big))
	if !errors.Is(err, ErrFileTooLarge) {
		t.Errorf("期望 ErrFileTooLarge，实际: %v", err)
	}
}

func TestSave_UnknownKind(t *testing.T) {
	m := newTestManager(t, 1)

	_, err := m.Save(Kind("exam"), makeFileHeader(t, "a.txt", "x"))
	if err == nil {
		t.Error("未知类型应报错")
	}
}

func TestExists(t *testing.T) {
	m := newTestManager(t, 1)

	saved, err := m.Save(KindChallenge, makeFileHeader(t, "hint.txt", "secret"))
	if err != nil {
		t.Fatalf("保存失败: %v", err)
	}

	if !m.Exists(saved.Path) {
		t.Error("已落盘文件应存在")
	}
	if m.Exists("") {
		t.Error("空路径应视为不存在")
	}
	if m.Exists(filepath.Join(t.TempDir(), "gone.txt")) {
		t.Error("未落盘路径应视为不存在")
	}
	if m.Exists(filepath.Dir(saved.Path)) {
		t.Error("目录不应视为文件存在")
	}
}

func TestReadText(t *testing.T) {
	m := newTestManager(t, 1)

	saved, err := m.Save(KindChallenge, makeFileHeader(t, "hint.txt", "隐藏内容"))
	if err != nil {
		t.Fatalf("保存失败: %v", err)
	}

	content, ok := m.ReadText(saved.Path)
	if !ok || content != "隐藏内容" {
		t.Errorf("期望读取到文件全文，实际 ok=%v content=%q", ok, content)
	}

	if _, ok := m.ReadText(filepath.Join(t.TempDir(), "gone.txt")); ok {
		t.Error("文件缺失应返回 ok=false")
	}
}

func TestMIMEByExtension(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"a.txt", "text/plain"},
		{"a.PDF", "application/pdf"},
		{"a.docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document"},
		{"a.zip", "application/zip"},
		{"a.unknown", "application/octet-stream"},
		{"noext", "application/octet-stream"},
	}
	for _, tt := range tests {
		if got := MIMEByExtension(tt.filename); got != tt.want {
			t.Errorf("MIMEByExtension(%s) = %s，期望 %s", tt.filename, got, tt.want)
		}
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"report.pdf", "report.pdf"},
		{"my file (1).txt", "my_file__1_.txt"},
		{"../../etc/passwd", ".._.._etc_passwd"},
		{"报告.docx", "__.docx"},
	}
	for _, tt := range tests {
		if got := sanitizeFilename(tt.in); got != tt.want {
			t.Errorf("sanitizeFilename(%q) = %q，期望 %q", tt.in, got, tt.want)
		}
	}
}
