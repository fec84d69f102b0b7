package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/taskhubhq/taskhub/internal/taskhub/domain"
	"github.com/taskhubhq/taskhub/internal/taskhub/store"
	"github.com/taskhubhq/taskhub/pkg/cryptox"
	"github.com/taskhubhq/taskhub/pkg/idx"
	"github.com/taskhubhq/taskhub/pkg/jwtx"
)

// captureMailer records the last invitation instead of sending it.
type captureMailer struct {
	email string
	link  string
}

func (m *captureMailer) SendInvite(ctx context.Context, email, workspaceName, link string) error {
	m.email = email
	m.link = link
	return nil
}

func (m *captureMailer) token(t *testing.T) string {
	t.Helper()
	_, tk, ok := strings.Cut(m.link, "?tk=")
	require.True(t, ok, "no token in link %q", m.link)
	return tk
}

func newInviteService(st store.Store, mailer Mailer) *InviteService {
	return &InviteService{
		Store:     st,
		Tokens:    jwtx.NewHS256([]byte("test-secret"), "taskhub"),
		Mailer:    mailer,
		InviteURL: "http://localhost:5173",
	}
}

func TestInvite(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st := newTestStore(t)
	mailer := &captureMailer{}
	svc := newInviteService(st, mailer)

	owner := seedUser(t, st, "Owner", "owner@example.com")
	member := seedUser(t, st, "Member", "member@example.com")
	guest := seedUser(t, st, "Guest", "guest@example.com")
	ws := seedWorkspace(t, st, owner, domain.WorkspaceMember{
		UserID: member.ID, Role: domain.RoleMember, JoinedAt: time.Now().UTC(),
	})

	t.Run("plain members cannot invite", func(t *testing.T) {
		err := svc.Invite(ctx, ws.ID, member.ID, guest.Email, domain.RoleMember)
		require.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("target account must exist", func(t *testing.T) {
		err := svc.Invite(ctx, ws.ID, owner.ID, "nobody@example.com", domain.RoleMember)
		require.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("existing members cannot be invited", func(t *testing.T) {
		err := svc.Invite(ctx, ws.ID, owner.ID, member.Email, domain.RoleMember)
		require.ErrorIs(t, err, ErrAlreadyMember)
	})

	t.Run("owner role cannot be granted", func(t *testing.T) {
		err := svc.Invite(ctx, ws.ID, owner.ID, guest.Email, domain.RoleOwner)
		require.ErrorIs(t, err, ErrInvalidRole)
	})

	t.Run("invite stores a fingerprint and mails the token", func(t *testing.T) {
		require.NoError(t, svc.Invite(ctx, ws.ID, owner.ID, guest.Email, domain.RoleMember))
		require.Equal(t, guest.Email, mailer.email)

		inv, err := st.Invites().GetInviteByUserAndWorkspace(ctx, guest.ID, ws.ID)
		require.NoError(t, err)
		require.Equal(t, domain.RoleMember, inv.Role)
		require.Equal(t, cryptox.FingerprintToken(mailer.token(t)), inv.TokenHash)
		require.NotContains(t, inv.TokenHash, mailer.token(t))
	})

	t.Run("pending invite blocks a second one", func(t *testing.T) {
		err := svc.Invite(ctx, ws.ID, owner.ID, guest.Email, domain.RoleMember)
		require.ErrorIs(t, err, ErrInvitePending)
	})
}

func TestInviteReplacesExpired(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st := newTestStore(t)
	mailer := &captureMailer{}
	svc := newInviteService(st, mailer)

	owner := seedUser(t, st, "Owner", "owner@example.com")
	guest := seedUser(t, st, "Guest", "guest@example.com")
	ws := seedWorkspace(t, st, owner)

	stale := domain.WorkspaceInvite{
		ID:          idx.New().String(),
		WorkspaceID: ws.ID,
		UserID:      guest.ID,
		Role:        domain.RoleMember,
		TokenHash:   "stale-hash",
		ExpiresAt:   time.Now().UTC().Add(-time.Hour),
		CreatedAt:   time.Now().UTC().Add(-8 * 24 * time.Hour),
	}
	require.NoError(t, st.Invites().CreateInvite(ctx, stale))

	require.NoError(t, svc.Invite(ctx, ws.ID, owner.ID, guest.Email, domain.RoleAdmin))

	inv, err := st.Invites().GetInviteByUserAndWorkspace(ctx, guest.ID, ws.ID)
	require.NoError(t, err)
	require.NotEqual(t, stale.ID, inv.ID)
	require.Equal(t, domain.RoleAdmin, inv.Role)
	require.False(t, inv.Expired(time.Now().UTC()))
}

func TestAcceptByToken(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st := newTestStore(t)
	mailer := &captureMailer{}
	svc := newInviteService(st, mailer)

	owner := seedUser(t, st, "Owner", "owner@example.com")
	guest := seedUser(t, st, "Guest", "guest@example.com")
	ws := seedWorkspace(t, st, owner)

	require.NoError(t, svc.Invite(ctx, ws.ID, owner.ID, guest.Email, domain.RoleAdmin))
	token := mailer.token(t)

	t.Run("garbage token", func(t *testing.T) {
		require.ErrorIs(t, svc.AcceptByToken(ctx, "not-a-jwt"), ErrInvalidInviteToken)
	})

	t.Run("valid signature but wrong fingerprint", func(t *testing.T) {
		// A freshly signed token for the same grant is still rejected:
		// only the exact token that was mailed can redeem the invite.
		other, err := svc.Tokens.Sign(jwtx.NewInviteClaims(
			guest.ID, ws.ID, "admin", "", jwtx.DefaultInviteTTL, time.Now().UTC()))
		require.NoError(t, err)
		require.ErrorIs(t, svc.AcceptByToken(ctx, other), ErrInvalidInviteToken)
	})

	t.Run("redeems once", func(t *testing.T) {
		require.NoError(t, svc.AcceptByToken(ctx, token))

		got, err := st.Workspaces().GetWorkspaceByID(ctx, ws.ID)
		require.NoError(t, err)
		m, ok := got.Member(guest.ID)
		require.True(t, ok)
		require.Equal(t, domain.RoleAdmin, m.Role)

		_, err = st.Invites().GetInviteByUserAndWorkspace(ctx, guest.ID, ws.ID)
		require.ErrorIs(t, err, store.ErrNotFound)

		feed, err := st.Activities().ListActivitiesByResource(ctx, domain.ResourceWorkspace, ws.ID, 10)
		require.NoError(t, err)
		require.Equal(t, domain.ActionJoinedWorkspace, feed[0].Action)

		// Replay: the user is already in.
		require.ErrorIs(t, svc.AcceptByToken(ctx, token), ErrAlreadyMember)
	})

	t.Run("expired token", func(t *testing.T) {
		expired, err := svc.Tokens.Sign(jwtx.NewInviteClaims(
			guest.ID, ws.ID, "member", "", time.Minute, time.Now().UTC().Add(-time.Hour)))
		require.NoError(t, err)
		require.ErrorIs(t, svc.AcceptByToken(ctx, expired), ErrInviteExpired)
	})
}

func TestAcceptOpenInvite(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st := newTestStore(t)
	svc := newInviteService(st, &captureMailer{})

	owner := seedUser(t, st, "Owner", "owner@example.com")
	guest := seedUser(t, st, "Guest", "guest@example.com")
	ws := seedWorkspace(t, st, owner)

	t.Run("unknown workspace", func(t *testing.T) {
		require.ErrorIs(t, svc.AcceptOpenInvite(ctx, idx.New().String(), guest.ID), ErrWorkspaceNotFound)
	})

	t.Run("joins as plain member", func(t *testing.T) {
		require.NoError(t, svc.AcceptOpenInvite(ctx, ws.ID, guest.ID))

		got, err := st.Workspaces().GetWorkspaceByID(ctx, ws.ID)
		require.NoError(t, err)
		m, ok := got.Member(guest.ID)
		require.True(t, ok)
		require.Equal(t, domain.RoleMember, m.Role)
	})

	t.Run("cannot join twice", func(t *testing.T) {
		require.ErrorIs(t, svc.AcceptOpenInvite(ctx, ws.ID, guest.ID), ErrAlreadyMember)
	})
}
