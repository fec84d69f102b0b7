package sqlite

import (
	"context"
	"database/sql"

	"github.com/taskhubhq/taskhub/internal/taskhub/domain"
)

type projectsRepo struct {
	db dbtx
}

const projectColumns = `id, workspace_id, title, description, status, start_date, due_date, is_archived, created_at, updated_at`

func scanProject(row interface{ Scan(dest ...any) error }) (domain.Project, error) {
	var (
		p          domain.Project
		start, due sql.NullTime
	)
	err := row.Scan(&p.ID, &p.WorkspaceID, &p.Title, &p.Description, &p.Status,
		&start, &due, &p.IsArchived, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return domain.Project{}, err
	}
	p.StartDate = mapNullTimePtr(start)
	p.DueDate = mapNullTimePtr(due)
	return p, nil
}

func (r *projectsRepo) CreateProject(ctx context.Context, p domain.Project) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO projects (id, workspace_id, title, description, status, start_date, due_date, is_archived, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.WorkspaceID, p.Title, p.Description, p.Status,
		mapOptionalTime(p.StartDate), mapOptionalTime(p.DueDate),
		p.IsArchived, p.CreatedAt.UTC(), p.UpdatedAt.UTC())
	if err != nil {
		return err
	}

	for _, m := range p.Members {
		if _, err := r.db.ExecContext(ctx,
			`INSERT INTO project_members (project_id, user_id, role) VALUES (?, ?, ?)`,
			p.ID, m.UserID, m.Role); err != nil {
			return err
		}
	}
	return nil
}

func (r *projectsRepo) GetProjectByID(ctx context.Context, id string) (domain.Project, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE id = ?`, id)
	p, err := scanProject(row)
	if err != nil {
		return domain.Project{}, mapNotFound(err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT user_id, role FROM project_members WHERE project_id = ? ORDER BY rowid`, id)
	if err != nil {
		return domain.Project{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var m domain.ProjectMember
		if err := rows.Scan(&m.UserID, &m.Role); err != nil {
			return domain.Project{}, err
		}
		p.Members = append(p.Members, m)
	}
	return p, rows.Err()
}

func (r *projectsRepo) CountProjectsByWorkspace(ctx context.Context, workspaceID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM projects WHERE workspace_id = ?`, workspaceID).Scan(&n)
	return n, err
}

func (r *projectsRepo) ListProjectsByWorkspace(ctx context.Context, workspaceID string) ([]domain.Project, error) {
	projects, err := r.listProjects(ctx,
		`SELECT `+projectColumns+` FROM projects
		 WHERE workspace_id = ?
		 ORDER BY created_at DESC, id DESC`, workspaceID)
	if err != nil {
		return nil, err
	}
	return r.hydrateTasks(ctx, workspaceID, projects)
}

func (r *projectsRepo) ListActiveProjectsByMember(ctx context.Context, workspaceID, userID string) ([]domain.Project, error) {
	projects, err := r.listProjects(ctx,
		`SELECT `+prefixColumns("p", projectColumns)+`
		 FROM projects p
		 JOIN project_members pm ON pm.project_id = p.id
		 WHERE p.workspace_id = ? AND pm.user_id = ? AND p.is_archived = FALSE
		 ORDER BY p.created_at DESC, p.id DESC`, workspaceID, userID)
	if err != nil {
		return nil, err
	}
	return r.hydrateTasks(ctx, workspaceID, projects)
}

func (r *projectsRepo) listProjects(ctx context.Context, query string, args ...any) ([]domain.Project, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// hydrateTasks attaches every task of the workspace to its project in one
// query, avoiding an N+1 over the project list. Projects not present in the
// result keep a nil Tasks slice.
func (r *projectsRepo) hydrateTasks(ctx context.Context, workspaceID string, projects []domain.Project) ([]domain.Project, error) {
	if len(projects) == 0 {
		return projects, nil
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+prefixColumns("t", taskColumns)+`
		 FROM tasks t
		 JOIN projects p ON p.id = t.project_id
		 WHERE p.workspace_id = ?
		 ORDER BY t.created_at, t.id`, workspaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byProject := make(map[string][]domain.Task, len(projects))
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		byProject[t.ProjectID] = append(byProject[t.ProjectID], t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range projects {
		projects[i].Tasks = byProject[projects[i].ID]
	}
	return projects, nil
}
