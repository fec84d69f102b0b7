package sqlite

import (
	"context"
	"time"

	"github.com/taskhubhq/taskhub/internal/taskhub/domain"
)

type workspacesRepo struct {
	db dbtx
}

const workspaceColumns = `id, name, description, color, owner_id, created_at, updated_at`

func (r *workspacesRepo) CreateWorkspace(ctx context.Context, w domain.Workspace) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO workspaces (id, name, description, color, owner_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		w.ID, w.Name, w.Description, w.Color, w.OwnerID,
		w.CreatedAt.UTC(), w.UpdatedAt.UTC())
	if err != nil {
		return err
	}

	for _, m := range w.Members {
		if err := r.AddMember(ctx, w.ID, m); err != nil {
			return err
		}
	}
	return nil
}

func (r *workspacesRepo) GetWorkspaceByID(ctx context.Context, id string) (domain.Workspace, error) {
	var w domain.Workspace
	row := r.db.QueryRowContext(ctx,
		`SELECT `+workspaceColumns+` FROM workspaces WHERE id = ?`, id)
	err := row.Scan(&w.ID, &w.Name, &w.Description, &w.Color, &w.OwnerID,
		&w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return domain.Workspace{}, mapNotFound(err)
	}

	// Hydrate members with their user records, in join order.
	rows, err := r.db.QueryContext(ctx,
		`SELECT wm.user_id, wm.role, wm.joined_at, `+prefixColumns("u", userColumns)+`
		 FROM workspace_members wm
		 JOIN users u ON u.id = wm.user_id
		 WHERE wm.workspace_id = ?
		 ORDER BY wm.joined_at, wm.rowid`, id)
	if err != nil {
		return domain.Workspace{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			m domain.WorkspaceMember
			u domain.User
		)
		if err := rows.Scan(&m.UserID, &m.Role, &m.JoinedAt,
			&u.ID, &u.Email, &u.Name, &nullStringScanner{&u.ProfilePicture},
			&u.CreatedAt, &u.UpdatedAt); err != nil {
			return domain.Workspace{}, err
		}
		m.User = &u
		w.Members = append(w.Members, m)
	}
	if err := rows.Err(); err != nil {
		return domain.Workspace{}, err
	}

	return w, nil
}

func (r *workspacesRepo) ListWorkspacesByMember(ctx context.Context, userID string) ([]domain.Workspace, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+prefixColumns("w", workspaceColumns)+`
		 FROM workspaces w
		 JOIN workspace_members wm ON wm.workspace_id = w.id
		 WHERE wm.user_id = ?
		 ORDER BY w.created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Workspace
	for rows.Next() {
		var w domain.Workspace
		if err := rows.Scan(&w.ID, &w.Name, &w.Description, &w.Color, &w.OwnerID,
			&w.CreatedAt, &w.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

func (r *workspacesRepo) UpdateWorkspaceDetails(ctx context.Context, id, name, description, color string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE workspaces SET name = ?, description = ?, color = ?, updated_at = ?
		 WHERE id = ?`,
		name, description, color, time.Now().UTC(), id)
	return err
}

func (r *workspacesRepo) DeleteWorkspace(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM workspaces WHERE id = ?`, id)
	return err
}

func (r *workspacesRepo) AddMember(ctx context.Context, workspaceID string, m domain.WorkspaceMember) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO workspace_members (workspace_id, user_id, role, joined_at)
		 VALUES (?, ?, ?, ?)`,
		workspaceID, m.UserID, m.Role, m.JoinedAt.UTC())
	return mapConflict(err)
}

func (r *workspacesRepo) UpdateMemberRole(ctx context.Context, workspaceID, userID string, role domain.WorkspaceRole) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE workspace_members SET role = ? WHERE workspace_id = ? AND user_id = ?`,
		role, workspaceID, userID)
	return err
}

func (r *workspacesRepo) RemoveMember(ctx context.Context, workspaceID, userID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM workspace_members WHERE workspace_id = ? AND user_id = ?`,
		workspaceID, userID)
	return err
}

func (r *workspacesRepo) SetOwner(ctx context.Context, workspaceID, ownerID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE workspaces SET owner_id = ?, updated_at = ? WHERE id = ?`,
		ownerID, time.Now().UTC(), workspaceID)
	return err
}
