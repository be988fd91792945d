package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/adpulse/marketing-api/internal/core/domain"
	"github.com/adpulse/marketing-api/internal/core/ports"
)

type stubIdP struct {
	registered []string
	groups     map[string][]string
	deleted    []string
	fail       bool
	nextID     int
}

func newStubIdP() *stubIdP {
	return &stubIdP{groups: make(map[string][]string)}
}

func (p *stubIdP) Register(_ context.Context, email, _ string) (string, error) {
	if p.fail {
		return "", context.DeadlineExceeded
	}
	p.nextID++
	id := "idp-" + email
	p.registered = append(p.registered, id)
	return id, nil
}

func (p *stubIdP) AddToGroup(_ context.Context, subjectID, group string) error {
	if p.fail {
		return context.DeadlineExceeded
	}
	p.groups[subjectID] = append(p.groups[subjectID], group)
	return nil
}

func (p *stubIdP) SetPassword(_ context.Context, _, _ string) error   { return nil }
func (p *stubIdP) StartPasswordReset(_ context.Context, _ string) error { return nil }

func (p *stubIdP) DeleteAccount(_ context.Context, subjectID string) error {
	if p.fail {
		return context.DeadlineExceeded
	}
	p.deleted = append(p.deleted, subjectID)
	return nil
}

type stubMailer struct {
	sent []string
	fail bool
}

func (m *stubMailer) Send(_ context.Context, template, to string, _ map[string]string) error {
	if m.fail {
		return context.DeadlineExceeded
	}
	m.sent = append(m.sent, template+":"+to)
	return nil
}

func TestStaffService_Invite(t *testing.T) {
	m := managerAccount("m1", domain.SubStatusActive)
	repo := newStubAccountRepo(m)
	idp := newStubIdP()
	mailer := &stubMailer{}
	svc := NewStaffService(repo, idp, mailer, zerolog.Nop())

	staff, err := svc.Invite(context.Background(), managerEntitlement(m), ports.InviteStaffInput{
		Email:     "staff@example.com",
		FirstName: "Sam",
	})
	if err != nil {
		t.Fatalf("invite failed: %v", err)
	}
	if staff.Role != domain.RoleStaff || staff.ManagerID != "m1" {
		t.Fatalf("unexpected staff record: %+v", staff)
	}
	if len(idp.registered) != 1 {
		t.Fatalf("principal not registered")
	}
	if got := idp.groups[staff.ID]; len(got) != 1 || got[0] != domain.GroupStaff {
		t.Fatalf("staff group not assigned: %v", got)
	}
	if len(mailer.sent) != 1 || mailer.sent[0] != "staff_invite:staff@example.com" {
		t.Fatalf("invitation email not sent: %v", mailer.sent)
	}
	if _, ok := repo.accounts[staff.ID]; !ok {
		t.Fatalf("staff document not created")
	}
}

func TestStaffService_Invite_StaffCannotInvite(t *testing.T) {
	m := managerAccount("m1", domain.SubStatusActive)
	s := staffAccount("s1", "m1")
	svc := NewStaffService(newStubAccountRepo(m, s), newStubIdP(), &stubMailer{}, zerolog.Nop())

	ent := &domain.Entitlement{Account: s, Manager: m}
	_, err := svc.Invite(context.Background(), ent, ports.InviteStaffInput{Email: "x@example.com"})
	if code := statusCode(t, err); code != domain.CodeNotAuthorized {
		t.Fatalf("expected CodeNotAuthorized, got %d", code)
	}
}

func TestStaffService_Invite_IdPFailure(t *testing.T) {
	m := managerAccount("m1", domain.SubStatusActive)
	idp := newStubIdP()
	idp.fail = true
	svc := NewStaffService(newStubAccountRepo(m), idp, &stubMailer{}, zerolog.Nop())

	_, err := svc.Invite(context.Background(), managerEntitlement(m), ports.InviteStaffInput{Email: "x@example.com"})
	if code := statusCode(t, err); code != domain.CodeIdentityProvider {
		t.Fatalf("expected CodeIdentityProvider, got %d", code)
	}
}

func TestStaffService_Remove(t *testing.T) {
	m := managerAccount("m1", domain.SubStatusActive)
	s := staffAccount("s1", "m1")
	repo := newStubAccountRepo(m, s)
	idp := newStubIdP()
	svc := NewStaffService(repo, idp, &stubMailer{}, zerolog.Nop())

	if err := svc.Remove(context.Background(), managerEntitlement(m), "s1"); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if len(idp.deleted) != 1 || idp.deleted[0] != "s1" {
		t.Fatalf("principal not deleted: %v", idp.deleted)
	}
	if repo.accounts["s1"].Status != domain.AccountStatusDeactivated {
		t.Fatalf("staff document not deactivated")
	}
}

func TestStaffService_Remove_ForeignStaff(t *testing.T) {
	m1 := managerAccount("m1", domain.SubStatusActive)
	m2 := managerAccount("m2", domain.SubStatusActive)
	s := staffAccount("s1", "m2")
	svc := NewStaffService(newStubAccountRepo(m1, m2, s), newStubIdP(), &stubMailer{}, zerolog.Nop())

	err := svc.Remove(context.Background(), managerEntitlement(m1), "s1")
	if code := statusCode(t, err); code != domain.CodeStaffNotFound {
		t.Fatalf("expected CodeStaffNotFound, got %d", code)
	}
}

func TestStaffService_List(t *testing.T) {
	m := managerAccount("m1", domain.SubStatusActive)
	s1 := staffAccount("s1", "m1")
	s2 := staffAccount("s2", "m1")
	svc := NewStaffService(newStubAccountRepo(m, s1, s2), newStubIdP(), &stubMailer{}, zerolog.Nop())

	page, err := svc.List(context.Background(), managerEntitlement(m), 1, 20)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(page.Items) != 2 || page.Total != 2 || page.PageCount != 1 {
		t.Fatalf("unexpected page: items=%d total=%d pages=%d", len(page.Items), page.Total, page.PageCount)
	}
}
