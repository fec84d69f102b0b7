package sqlite

import (
	"context"
	"time"

	"github.com/taskhubhq/taskhub/internal/taskhub/domain"
)

type invitesRepo struct {
	db dbtx
}

func (r *invitesRepo) CreateInvite(ctx context.Context, inv domain.WorkspaceInvite) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO workspace_invites (id, workspace_id, user_id, role, token_hash, expires_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		inv.ID, inv.WorkspaceID, inv.UserID, inv.Role, inv.TokenHash,
		inv.ExpiresAt.UTC(), inv.CreatedAt.UTC())
	return mapConflict(err)
}

func (r *invitesRepo) GetInviteByUserAndWorkspace(ctx context.Context, userID, workspaceID string) (domain.WorkspaceInvite, error) {
	var inv domain.WorkspaceInvite
	row := r.db.QueryRowContext(ctx,
		`SELECT id, workspace_id, user_id, role, token_hash, expires_at, created_at
		 FROM workspace_invites
		 WHERE user_id = ? AND workspace_id = ?`, userID, workspaceID)
	err := row.Scan(&inv.ID, &inv.WorkspaceID, &inv.UserID, &inv.Role,
		&inv.TokenHash, &inv.ExpiresAt, &inv.CreatedAt)
	if err != nil {
		return domain.WorkspaceInvite{}, mapNotFound(err)
	}
	return inv, nil
}

func (r *invitesRepo) DeleteInvite(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM workspace_invites WHERE id = ?`, id)
	return err
}

func (r *invitesRepo) DeleteExpiredInvites(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM workspace_invites WHERE expires_at < ?`, time.Now().UTC())
	return err
}
