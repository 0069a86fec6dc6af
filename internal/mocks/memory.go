package mocks

import (
	"sort"
	"sync"

	"github.com/kanbanboard/kanban-api/internal/domain"
)

// MemoryDB is the in-memory state shared by the store mocks.
// It applies the same uniqueness and reference rules as the schema.
type MemoryDB struct {
	mu sync.Mutex

	Users  map[int64]*domain.User
	Boards map[int64]*domain.Board
	Tasks  map[int64]*domain.Task

	nextUserID  int64
	nextBoardID int64
	nextTaskID  int64
}

// NewMemoryDB creates an empty MemoryDB.
func NewMemoryDB() *MemoryDB {
	return &MemoryDB{
		Users:  make(map[int64]*domain.User),
		Boards: make(map[int64]*domain.Board),
		Tasks:  make(map[int64]*domain.Task),
	}
}

// UserCount returns the number of stored users.
func (db *MemoryDB) UserCount() int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return len(db.Users)
}

// BoardCount returns the number of stored boards.
func (db *MemoryDB) BoardCount() int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return len(db.Boards)
}

// TaskCount returns the number of stored tasks.
func (db *MemoryDB) TaskCount() int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return len(db.Tasks)
}

// taskCountLocked counts tasks on a board. Callers hold mu.
func (db *MemoryDB) taskCountLocked(boardID int64) int {
	n := 0
	for _, t := range db.Tasks {
		if t.BoardID == boardID {
			n++
		}
	}
	return n
}

// boardWithCountLocked returns a copy of the board with TaskCount filled in.
func (db *MemoryDB) boardWithCountLocked(b *domain.Board) *domain.Board {
	out := *b
	out.TaskCount = db.taskCountLocked(b.ID)
	return &out
}

// taskWithBoardLocked returns a copy of the task with BoardTitle filled in.
func (db *MemoryDB) taskWithBoardLocked(t *domain.Task) *domain.Task {
	out := *t
	if b, ok := db.Boards[t.BoardID]; ok {
		out.BoardTitle = b.Title
	}
	return &out
}

func sortTasks(tasks []*domain.Task) {
	sort.Slice(tasks, func(i, j int) bool {
		if tasks[i].Position != tasks[j].Position {
			return tasks[i].Position < tasks[j].Position
		}
		return tasks[i].ID < tasks[j].ID
	})
}

func sortBoardsNewestFirst(boards []*domain.Board) {
	sort.Slice(boards, func(i, j int) bool {
		if !boards[i].CreatedAt.Equal(boards[j].CreatedAt) {
			return boards[i].CreatedAt.After(boards[j].CreatedAt)
		}
		return boards[i].ID > boards[j].ID
	})
}
