package service

import (
	"context"
	"fmt"

	"classhub/internal/model"
	"classhub/internal/repository"
	"classhub/internal/store"
	pkgerrors "classhub/pkg/errors"
)

// ── Mock Repositories ──

type mockUserRepo struct {
	users  map[string]*model.User // key: id
	nextID int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) (string, error) {
	id := user.ID
	if id == "" {
		m.nextID++
		id = fmt.Sprintf("user-%d", m.nextID)
	}
	u := *user
	u.ID = id
	m.users[id] = &u
	return id, nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, pkgerrors.ErrNotFound
}

func (m *mockUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, pkgerrors.ErrNotFound
}

func (m *mockUserRepo) ListTeachers(_ context.Context) ([]model.User, error) {
	return m.listByRole(model.RoleTeacher), nil
}

func (m *mockUserRepo) ListStudents(_ context.Context) ([]model.User, error) {
	return m.listByRole(model.RoleStudent), nil
}

func (m *mockUserRepo) listByRole(role string) []model.User {
	var list []model.User
	for _, u := range m.users {
		if u.Role == role {
			list = append(list, *u)
		}
	}
	return list
}

func (m *mockUserRepo) Update(_ context.Context, id string, fields store.Fields) bool {
	u, ok := m.users[id]
	if !ok {
		return false
	}
	for col, v := range fields {
		s, _ := v.Native().(string)
		switch col {
		case "username":
			u.Username = s
		case "password":
			u.Password = s
		case "fullname":
			u.Fullname = s
		case "email":
			u.Email = s
		case "phone":
			u.Phone = s
		}
	}
	return true
}

func (m *mockUserRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.users)), nil
}

type mockAssignmentRepo struct {
	assignments map[string]*model.Assignment
	users       *mockUserRepo
	subs        *mockSubmissionRepo
	nextID      int
}

func newMockAssignmentRepo(users *mockUserRepo, subs *mockSubmissionRepo) *mockAssignmentRepo {
	return &mockAssignmentRepo{
		assignments: make(map[string]*model.Assignment),
		users:       users,
		subs:        subs,
	}
}

func (m *mockAssignmentRepo) Create(_ context.Context, a *model.Assignment) (string, error) {
	m.nextID++
	id := fmt.Sprintf("assignment-%d", m.nextID)
	row := *a
	row.ID = id
	m.assignments[id] = &row
	return id, nil
}

func (m *mockAssignmentRepo) GetByID(_ context.Context, id string) (*model.Assignment, error) {
	if a, ok := m.assignments[id]; ok {
		return a, nil
	}
	return nil, pkgerrors.ErrNotFound
}

func (m *mockAssignmentRepo) GetWithTeacher(ctx context.Context, id string) (*repository.AssignmentWithTeacher, error) {
	a, err := m.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	row := repository.AssignmentWithTeacher{Assignment: *a}
	if t, ok := m.users.users[a.TeacherID]; ok {
		row.TeacherName = t.Fullname
	}
	return &row, nil
}

func (m *mockAssignmentRepo) ListWithTeacher(ctx context.Context, teacherID string) ([]repository.AssignmentWithTeacher, error) {
	var list []repository.AssignmentWithTeacher
	for id, a := range m.assignments {
		if teacherID != "" && a.TeacherID != teacherID {
			continue
		}
		row, _ := m.GetWithTeacher(ctx, id)
		list = append(list, *row)
	}
	return list, nil
}

func (m *mockAssignmentRepo) ListForStudent(ctx context.Context, studentID, teacherID string) ([]repository.AssignmentForStudent, error) {
	base, err := m.ListWithTeacher(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	var list []repository.AssignmentForStudent
	for _, a := range base {
		_, err := m.subs.FindByAssignmentAndStudent(ctx, a.ID, studentID)
		list = append(list, repository.AssignmentForStudent{
			AssignmentWithTeacher: a,
			HasSubmitted:          err == nil,
		})
	}
	return list, nil
}

type mockSubmissionRepo struct {
	rows   map[string]*model.Submission // key: assignment_id + ":" + student_id
	users  *mockUserRepo
	nextID int
}

func newMockSubmissionRepo(users *mockUserRepo) *mockSubmissionRepo {
	return &mockSubmissionRepo{rows: make(map[string]*model.Submission), users: users}
}

func (m *mockSubmissionRepo) GetByID(_ context.Context, id string) (*model.Submission, error) {
	for _, sub := range m.rows {
		if sub.ID == id {
			return sub, nil
		}
	}
	return nil, pkgerrors.ErrNotFound
}

func (m *mockSubmissionRepo) FindByAssignmentAndStudent(_ context.Context, assignmentID, studentID string) (*model.Submission, error) {
	if sub, ok := m.rows[assignmentID+":"+studentID]; ok {
		return sub, nil
	}
	return nil, pkgerrors.ErrNotFound
}

// Save 重现存在即覆盖语义：同键只改文件引用，行 ID 不变
func (m *mockSubmissionRepo) Save(_ context.Context, sub *model.Submission) (repository.SaveResult, error) {
	key := sub.AssignmentID + ":" + sub.StudentID
	if existing, ok := m.rows[key]; ok {
		existing.FilePath = sub.FilePath
		existing.Filename = sub.Filename
		return repository.SaveResult{ID: existing.ID, Inserted: false}, nil
	}
	m.nextID++
	row := *sub
	row.ID = fmt.Sprintf("submission-%d", m.nextID)
	m.rows[key] = &row
	return repository.SaveResult{ID: row.ID, Inserted: true}, nil
}

func (m *mockSubmissionRepo) ListWithDetails(_ context.Context, filters repository.SubmissionFilters) ([]repository.SubmissionWithDetails, error) {
	var list []repository.SubmissionWithDetails
	for _, sub := range m.rows {
		if filters.AssignmentID != "" && sub.AssignmentID != filters.AssignmentID {
			continue
		}
		if filters.StudentID != "" && sub.StudentID != filters.StudentID {
			continue
		}
		row := repository.SubmissionWithDetails{Submission: *sub}
		if u, ok := m.users.users[sub.StudentID]; ok {
			row.StudentName = u.Fullname
			row.StudentUsername = u.Username
		}
		list = append(list, row)
	}
	return list, nil
}

type mockChallengeRepo struct {
	challenges map[string]*model.Challenge
	users      *mockUserRepo
	nextID     int
}

func newMockChallengeRepo(users *mockUserRepo) *mockChallengeRepo {
	return &mockChallengeRepo{challenges: make(map[string]*model.Challenge), users: users}
}

func (m *mockChallengeRepo) Create(_ context.Context, ch *model.Challenge) (string, error) {
	m.nextID++
	id := fmt.Sprintf("challenge-%d", m.nextID)
	row := *ch
	row.ID = id
	m.challenges[id] = &row
	return id, nil
}

func (m *mockChallengeRepo) GetByID(_ context.Context, id string) (*model.Challenge, error) {
	if ch, ok := m.challenges[id]; ok {
		return ch, nil
	}
	return nil, pkgerrors.ErrNotFound
}

func (m *mockChallengeRepo) ListWithTeacher(ctx context.Context, teacherID string) ([]repository.ChallengeWithTeacher, error) {
	var list []repository.ChallengeWithTeacher
	for _, ch := range m.challenges {
		if teacherID != "" && ch.TeacherID != teacherID {
			continue
		}
		row := repository.ChallengeWithTeacher{Challenge: *ch}
		if t, ok := m.users.users[ch.TeacherID]; ok {
			row.TeacherName = t.Fullname
		}
		list = append(list, row)
	}
	return list, nil
}

type mockMessageRepo struct {
	messages map[string]*model.Message
	users    *mockUserRepo
	nextID   int
}

func newMockMessageRepo(users *mockUserRepo) *mockMessageRepo {
	return &mockMessageRepo{messages: make(map[string]*model.Message), users: users}
}

func (m *mockMessageRepo) Create(_ context.Context, msg *model.Message) (string, error) {
	m.nextID++
	id := fmt.Sprintf("message-%d", m.nextID)
	row := *msg
	row.ID = id
	m.messages[id] = &row
	return id, nil
}

func (m *mockMessageRepo) GetByID(_ context.Context, id string) (*model.Message, error) {
	if msg, ok := m.messages[id]; ok {
		return msg, nil
	}
	return nil, pkgerrors.ErrNotFound
}

func (m *mockMessageRepo) ListForReceiver(_ context.Context, receiverID string) ([]repository.MessageWithSender, error) {
	var list []repository.MessageWithSender
	for _, msg := range m.messages {
		if msg.ReceiverID != receiverID {
			continue
		}
		row := repository.MessageWithSender{Message: *msg}
		if u, ok := m.users.users[msg.SenderID]; ok {
			row.SenderName = u.Fullname
			row.SenderUsername = u.Username
		}
		list = append(list, row)
	}
	return list, nil
}

func (m *mockMessageRepo) CountUnread(_ context.Context, receiverID string) (int64, error) {
	var count int64
	for _, msg := range m.messages {
		if msg.ReceiverID == receiverID && !msg.IsRead {
			count++
		}
	}
	return count, nil
}

func (m *mockMessageRepo) MarkRead(_ context.Context, id string) bool {
	msg, ok := m.messages[id]
	if !ok {
		return false
	}
	msg.IsRead = true
	return true
}

// ── 测试辅助 ──

type mockRepos struct {
	users       *mockUserRepo
	assignments *mockAssignmentRepo
	submissions *mockSubmissionRepo
	challenges  *mockChallengeRepo
	messages    *mockMessageRepo
}

func newMockRepository() (*repository.Repository, *mockRepos) {
	users := newMockUserRepo()
	subs := newMockSubmissionRepo(users)
	assignments := newMockAssignmentRepo(users, subs)
	challenges := newMockChallengeRepo(users)
	messages := newMockMessageRepo(users)

	m := &mockRepos{
		users:       users,
		assignments: assignments,
		submissions: subs,
		challenges:  challenges,
		messages:    messages,
	}
	return &repository.Repository{
		User:       users,
		Assignment: assignments,
		Submission: subs,
		Challenge:  challenges,
		Message:    messages,
	}, m
}
