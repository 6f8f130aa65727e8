package service

import (
	"context"
	"testing"
	"time"
)

func TestMemoryUnlockStore_SessionScoped(t *testing.T) {
	st := newMemoryUnlockStore(time.Hour)
	ctx := context.Background()

	if err := st.MarkSolved(ctx, "session-a", "c-1"); err != nil {
		t.Fatalf("MarkSolved 失败: %v", err)
	}

	solved, _ := st.IsSolved(ctx, "session-a", "c-1")
	if !solved {
		t.Error("同会话应可见解锁状态")
	}
	solved, _ = st.IsSolved(ctx, "session-b", "c-1")
	if solved {
		t.Error("其他会话不应看到解锁状态")
	}
	solved, _ = st.IsSolved(ctx, "session-a", "c-2")
	if solved {
		t.Error("未解锁的挑战不应判定为已解锁")
	}
}

func TestMemoryUnlockStore_ExpiredSessionUnsolved(t *testing.T) {
	st := newMemoryUnlockStore(time.Hour)
	ctx := context.Background()

	st.MarkSolved(ctx, "session-a", "c-1")
	st.sessions["session-a"].expiresAt = time.Now().Add(-time.Minute)

	solved, _ := st.IsSolved(ctx, "session-a", "c-1")
	if solved {
		t.Error("过期会话应判定为未解锁")
	}
	if _, ok := st.sessions["session-a"]; ok {
		t.Error("过期会话应在读取时被移除")
	}
}

// 废弃的过期会话不应在进程生命周期内无限累积
func TestMemoryUnlockStore_SweepsAbandonedSessions(t *testing.T) {
	st := newMemoryUnlockStore(time.Hour)
	ctx := context.Background()

	for _, id := range []string{"session-old1", "session-old2"} {
		st.MarkSolved(ctx, id, "c-1")
		st.sessions[id].expiresAt = time.Now().Add(-time.Minute)
	}

	// 任一后续写入都会顺带清掉所有过期会话
	st.MarkSolved(ctx, "session-new", "c-2")

	if len(st.sessions) != 1 {
		t.Errorf("过期会话应被清空，剩余 %d 个会话", len(st.sessions))
	}
	solved, _ := st.IsSolved(ctx, "session-new", "c-2")
	if !solved {
		t.Error("新会话的解锁状态应保留")
	}
}

func TestMemoryUnlockStore_Forget(t *testing.T) {
	st := newMemoryUnlockStore(time.Hour)
	ctx := context.Background()

	st.MarkSolved(ctx, "session-a", "c-1")
	if err := st.Forget(ctx, "session-a"); err != nil {
		t.Fatalf("Forget 失败: %v", err)
	}

	solved, _ := st.IsSolved(ctx, "session-a", "c-1")
	if solved {
		t.Error("Forget 后解锁状态应被清除")
	}
}
