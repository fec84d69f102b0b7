package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/taskhubhq/taskhub/internal/taskhub/domain"
)

type tasksRepo struct {
	db dbtx
}

const taskColumns = `id, project_id, title, description, status, priority, due_date, is_archived, created_by, created_at, updated_at`

func scanTask(row interface{ Scan(dest ...any) error }) (domain.Task, error) {
	var (
		t   domain.Task
		due sql.NullTime
	)
	err := row.Scan(&t.ID, &t.ProjectID, &t.Title, &t.Description, &t.Status,
		&t.Priority, &due, &t.IsArchived, &t.CreatedBy, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return domain.Task{}, err
	}
	t.DueDate = mapNullTimePtr(due)
	return t, nil
}

func (r *tasksRepo) CreateTask(ctx context.Context, t domain.Task) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO tasks (id, project_id, title, description, status, priority, due_date, is_archived, created_by, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.ProjectID, t.Title, t.Description, t.Status, t.Priority,
		mapOptionalTime(t.DueDate), t.IsArchived, t.CreatedBy,
		t.CreatedAt.UTC(), t.UpdatedAt.UTC())
	if err != nil {
		return err
	}

	for _, userID := range t.AssigneeIDs {
		if _, err := r.db.ExecContext(ctx,
			`INSERT INTO task_assignees (task_id, user_id) VALUES (?, ?)`,
			t.ID, userID); err != nil {
			return err
		}
	}
	return nil
}

func (r *tasksRepo) GetTaskByID(ctx context.Context, id string) (domain.Task, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if err != nil {
		return domain.Task{}, mapNotFound(err)
	}

	if t.AssigneeIDs, err = r.listAssignees(ctx, id); err != nil {
		return domain.Task{}, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, task_id, title, completed, created_at
		 FROM subtasks WHERE task_id = ? ORDER BY created_at, id`, id)
	if err != nil {
		return domain.Task{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var s domain.Subtask
		if err := rows.Scan(&s.ID, &s.TaskID, &s.Title, &s.Completed, &s.CreatedAt); err != nil {
			return domain.Task{}, err
		}
		t.Subtasks = append(t.Subtasks, s)
	}
	if err := rows.Err(); err != nil {
		return domain.Task{}, err
	}

	if t.Comments, err = r.ListCommentsByTask(ctx, id); err != nil {
		return domain.Task{}, err
	}

	return t, nil
}

func (r *tasksRepo) listAssignees(ctx context.Context, taskID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT user_id FROM task_assignees WHERE task_id = ? ORDER BY rowid`, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func (r *tasksRepo) UpdateTaskStatus(ctx context.Context, id string, status domain.TaskStatus) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET status = ?, updated_at = ? WHERE id = ?`,
		status, time.Now().UTC(), id)
	return err
}

func (r *tasksRepo) UpdateTaskPriority(ctx context.Context, id string, priority domain.TaskPriority) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET priority = ?, updated_at = ? WHERE id = ?`,
		priority, time.Now().UTC(), id)
	return err
}

func (r *tasksRepo) ListTasksByAssignee(ctx context.Context, userID string) ([]domain.Task, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+prefixColumns("t", taskColumns)+`
		 FROM tasks t
		 JOIN task_assignees a ON a.task_id = t.id
		 WHERE a.user_id = ? AND t.is_archived = FALSE
		 ORDER BY t.updated_at DESC, t.id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// One pass to attach co-assignees for every listed task.
	arows, err := r.db.QueryContext(ctx,
		`SELECT a.task_id, a.user_id
		 FROM task_assignees a
		 JOIN task_assignees mine ON mine.task_id = a.task_id
		 WHERE mine.user_id = ?
		 ORDER BY a.rowid`, userID)
	if err != nil {
		return nil, err
	}
	defer arows.Close()

	byTask := make(map[string][]string, len(out))
	for arows.Next() {
		var taskID, assignee string
		if err := arows.Scan(&taskID, &assignee); err != nil {
			return nil, err
		}
		byTask[taskID] = append(byTask[taskID], assignee)
	}
	if err := arows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		out[i].AssigneeIDs = byTask[out[i].ID]
	}
	return out, nil
}

func (r *tasksRepo) CreateSubtask(ctx context.Context, s domain.Subtask) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO subtasks (id, task_id, title, completed, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		s.ID, s.TaskID, s.Title, s.Completed, s.CreatedAt.UTC())
	return err
}

func (r *tasksRepo) SetSubtaskCompleted(ctx context.Context, taskID, subtaskID string, completed bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE subtasks SET completed = ? WHERE id = ? AND task_id = ?`,
		completed, subtaskID, taskID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return mapNotFound(sql.ErrNoRows)
	}

	// Progress on a subtask counts as progress on the task.
	_, err = r.db.ExecContext(ctx,
		`UPDATE tasks SET updated_at = ? WHERE id = ?`,
		time.Now().UTC(), taskID)
	return err
}

func (r *tasksRepo) CreateComment(ctx context.Context, c domain.Comment) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO comments (id, task_id, author_id, body, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		c.ID, c.TaskID, c.AuthorID, c.Body, c.CreatedAt.UTC())
	if err != nil {
		return err
	}

	for _, userID := range c.MentionIDs {
		if _, err := r.db.ExecContext(ctx,
			`INSERT INTO comment_mentions (comment_id, user_id) VALUES (?, ?)`,
			c.ID, userID); err != nil {
			return err
		}
	}
	return nil
}

func (r *tasksRepo) ListCommentsByTask(ctx context.Context, taskID string) ([]domain.Comment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, task_id, author_id, body, created_at
		 FROM comments WHERE task_id = ? ORDER BY created_at, id`, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Comment
	for rows.Next() {
		var c domain.Comment
		if err := rows.Scan(&c.ID, &c.TaskID, &c.AuthorID, &c.Body, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	mrows, err := r.db.QueryContext(ctx,
		`SELECT m.comment_id, m.user_id
		 FROM comment_mentions m
		 JOIN comments c ON c.id = m.comment_id
		 WHERE c.task_id = ?
		 ORDER BY m.rowid`, taskID)
	if err != nil {
		return nil, err
	}
	defer mrows.Close()

	byComment := make(map[string][]string)
	for mrows.Next() {
		var commentID, userID string
		if err := mrows.Scan(&commentID, &userID); err != nil {
			return nil, err
		}
		byComment[commentID] = append(byComment[commentID], userID)
	}
	if err := mrows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		out[i].MentionIDs = byComment[out[i].ID]
	}
	return out, nil
}
