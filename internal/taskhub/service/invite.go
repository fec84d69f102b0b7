package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/taskhubhq/taskhub/internal/taskhub/domain"
	"github.com/taskhubhq/taskhub/internal/taskhub/store"
	"github.com/taskhubhq/taskhub/pkg/cryptox"
	"github.com/taskhubhq/taskhub/pkg/idx"
	"github.com/taskhubhq/taskhub/pkg/jwtx"
	"github.com/taskhubhq/taskhub/pkg/slogx"
)

var (
	ErrInvalidRole        = errors.New("invalid invite role")
	ErrAlreadyMember      = errors.New("user already a member of this workspace")
	ErrInvitePending      = errors.New("user already invited to this workspace")
	ErrInviteNotFound     = errors.New("invitation not found")
	ErrInviteExpired      = errors.New("invitation has expired")
	ErrInvalidInviteToken = errors.New("invalid invitation token")
)

// InviteService mints and redeems workspace invitations. The raw invite
// token is a signed JWT that travels by email; the database keeps only its
// SHA-256 fingerprint, so a leaked table cannot be replayed as tokens.
type InviteService struct {
	Store  store.Store
	Tokens *jwtx.HS256
	Mailer Mailer

	// InviteURL is the base link sent in invitation emails; the raw token
	// is appended as a query parameter.
	InviteURL string
}

// Invite creates an invitation for the user behind email and mails them the
// link. Caller must be a workspace admin or owner.
func (s *InviteService) Invite(
	ctx context.Context,
	workspaceID string,
	callerID string,
	email string,
	role domain.WorkspaceRole,
) error {
	log := slogx.FromContext(ctx)

	// 1. Only admins and owners may invite.
	ws, _, err := requireRole(ctx, s.Store, workspaceID, callerID, domain.RoleAdmin)
	if err != nil {
		return err
	}

	// 2. Empty role defaults to member; owner can never be granted by invite.
	if role == "" {
		role = domain.RoleMember
	}
	if !role.Valid() || role == domain.RoleOwner {
		return ErrInvalidRole
	}

	// 3. Invitations only go to existing accounts.
	target, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		log.Error("failed to fetch user", slog.Any("error", err))
		return err
	}

	if _, ok := ws.Member(target.ID); ok {
		return ErrAlreadyMember
	}

	// 4. A live pending invite blocks a second one; an expired leftover is
	// silently replaced.
	now := time.Now().UTC()
	var replaces string
	existing, err := s.Store.Invites().GetInviteByUserAndWorkspace(ctx, target.ID, workspaceID)
	switch {
	case err == nil && !existing.Expired(now):
		return ErrInvitePending
	case err == nil:
		replaces = existing.ID
	case !errors.Is(err, store.ErrNotFound):
		log.Error("failed to fetch invite", slog.Any("error", err))
		return err
	}

	// 5. Mint the capability token and fingerprint it for storage.
	token, err := s.Tokens.Sign(jwtx.NewInviteClaims(
		target.ID, workspaceID, string(role), "", jwtx.DefaultInviteTTL, now))
	if err != nil {
		log.Error("failed to sign invite token", slog.Any("error", err))
		return err
	}

	invite := domain.WorkspaceInvite{
		ID:          idx.New().String(),
		WorkspaceID: workspaceID,
		UserID:      target.ID,
		Role:        role,
		TokenHash:   cryptox.FingerprintToken(token),
		ExpiresAt:   now.Add(jwtx.DefaultInviteTTL),
		CreatedAt:   now,
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if replaces != "" {
			if err := tx.Invites().DeleteInvite(ctx, replaces); err != nil {
				return err
			}
		}
		return tx.Invites().CreateInvite(ctx, invite)
	})
	if err != nil {
		log.Error("failed to store invite", slog.Any("error", err))
		return err
	}

	// 6. Delivery failure is logged but does not undo the invite; the
	// inviter can re-send once the pending invite expires.
	link := s.InviteURL + "/workspace-invite/" + workspaceID + "?tk=" + token
	if err := s.Mailer.SendInvite(ctx, email, ws.Name, link); err != nil {
		log.Error("failed to send invite email",
			slog.String("invite_id", invite.ID),
			slog.Any("error", err),
		)
	}

	log.Info("workspace invite created",
		slog.String("workspace_id", workspaceID),
		slog.String("invite_id", invite.ID),
		slog.String("role", string(role)),
	)
	return nil
}

// AcceptByToken redeems an invitation token. The membership is granted to
// the user named inside the token, and the stored invite is consumed so the
// token cannot be replayed.
func (s *InviteService) AcceptByToken(ctx context.Context, token string) error {
	log := slogx.FromContext(ctx)

	// 1. Signature and expiry first; a forged or stale token never touches
	// the database.
	claims, err := s.Tokens.Verify(token)
	if err != nil {
		if errors.Is(err, jwtx.ErrExpired) {
			return ErrInviteExpired
		}
		return ErrInvalidInviteToken
	}

	userID := claims.Subject
	workspaceID := claims.Workspace
	role := domain.WorkspaceRole(claims.Role)
	if role == "" {
		role = domain.RoleMember
	}

	// 2. The workspace must still exist and the user must not have joined
	// through another door in the meantime.
	ws, err := s.Store.Workspaces().GetWorkspaceByID(ctx, workspaceID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrWorkspaceNotFound
		}
		log.Error("failed to fetch workspace", slog.Any("error", err))
		return err
	}
	if _, ok := ws.Member(userID); ok {
		return ErrAlreadyMember
	}

	// 3. The stored record gates redemption: it must exist, be unexpired,
	// and carry this exact token's fingerprint. Re-inviting rotates the
	// fingerprint, which invalidates the older email.
	invite, err := s.Store.Invites().GetInviteByUserAndWorkspace(ctx, userID, workspaceID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrInviteNotFound
		}
		log.Error("failed to fetch invite", slog.Any("error", err))
		return err
	}

	now := time.Now().UTC()
	if invite.Expired(now) {
		return ErrInviteExpired
	}
	if invite.TokenHash != cryptox.FingerprintToken(token) {
		return ErrInvalidInviteToken
	}

	// 4. Join and consume atomically.
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Workspaces().AddMember(ctx, workspaceID, domain.WorkspaceMember{
			UserID:   userID,
			Role:     role,
			JoinedAt: now,
		}); err != nil {
			return err
		}
		if err := tx.Invites().DeleteInvite(ctx, invite.ID); err != nil {
			return err
		}
		return tx.Activities().CreateActivity(ctx, domain.Activity{
			ID:           idx.New().String(),
			UserID:       userID,
			Action:       domain.ActionJoinedWorkspace,
			ResourceType: domain.ResourceWorkspace,
			ResourceID:   workspaceID,
			Details:      "joined " + ws.Name + " workspace",
			CreatedAt:    now,
		})
	})
	if err != nil {
		log.Error("failed to accept invite", slog.Any("error", err))
		return err
	}

	log.Info("workspace invite accepted",
		slog.String("workspace_id", workspaceID),
		slog.String("user_id", userID),
	)
	return nil
}

// AcceptOpenInvite joins the caller to a workspace that allows open joining,
// always as a plain member.
func (s *InviteService) AcceptOpenInvite(ctx context.Context, workspaceID, callerID string) error {
	log := slogx.FromContext(ctx)

	ws, err := s.Store.Workspaces().GetWorkspaceByID(ctx, workspaceID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrWorkspaceNotFound
		}
		log.Error("failed to fetch workspace", slog.Any("error", err))
		return err
	}
	if _, ok := ws.Member(callerID); ok {
		return ErrAlreadyMember
	}

	now := time.Now().UTC()
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Workspaces().AddMember(ctx, workspaceID, domain.WorkspaceMember{
			UserID:   callerID,
			Role:     domain.RoleMember,
			JoinedAt: now,
		}); err != nil {
			return err
		}
		return tx.Activities().CreateActivity(ctx, domain.Activity{
			ID:           idx.New().String(),
			UserID:       callerID,
			Action:       domain.ActionJoinedWorkspace,
			ResourceType: domain.ResourceWorkspace,
			ResourceID:   workspaceID,
			Details:      "joined " + ws.Name + " workspace",
			CreatedAt:    now,
		})
	})
	if err != nil {
		log.Error("failed to join workspace", slog.Any("error", err))
		return err
	}

	log.Info("joined workspace",
		slog.String("workspace_id", workspaceID),
		slog.String("user_id", callerID),
	)
	return nil
}
