package services

import (
	"context"
	"sort"
	"time"

	"communityreg/internal/domain"
)

// In-memory fakes for the repository and adapter interfaces. They enforce the
// same uniqueness rules as the postgres implementations so service behavior
// around conflicts can be tested without a database.

type mockParticipantRepository struct {
	participants map[int64]*domain.Participant
	nextID       int64

	createErr   error
	getErr      error
	setOwnerErr error
	createCalls int
}

func newMockParticipantRepository() *mockParticipantRepository {
	return &mockParticipantRepository{participants: map[int64]*domain.Participant{}}
}

func (m *mockParticipantRepository) add(p *domain.Participant) *domain.Participant {
	m.nextID++
	p.ID = m.nextID
	m.participants[p.ID] = p
	return p
}

func (m *mockParticipantRepository) Create(ctx context.Context, p *domain.Participant) error {
	m.createCalls++
	if m.createErr != nil {
		return m.createErr
	}
	for _, existing := range m.participants {
		if existing.NRIC == p.NRIC {
			return domain.ErrDuplicateNRIC
		}
	}
	m.add(p)
	return nil
}

func (m *mockParticipantRepository) GetByID(ctx context.Context, id int64) (*domain.Participant, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	p, ok := m.participants[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (m *mockParticipantRepository) GetByNRIC(ctx context.Context, nric string) (*domain.Participant, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	for _, p := range m.participants {
		if p.NRIC == nric {
			return p, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockParticipantRepository) SetOwner(ctx context.Context, id int64, ownerID *int64) error {
	if m.setOwnerErr != nil {
		return m.setOwnerErr
	}
	p, ok := m.participants[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.OwnerID = ownerID
	return nil
}

func (m *mockParticipantRepository) FirstByOwnerID(ctx context.Context, ownerID int64) (*domain.Participant, error) {
	var first *domain.Participant
	for _, p := range m.participants {
		if p.OwnerID == nil || *p.OwnerID != ownerID {
			continue
		}
		if first == nil || p.ID < first.ID {
			first = p
		}
	}
	if first == nil {
		return nil, domain.ErrNotFound
	}
	return first, nil
}

func (m *mockParticipantRepository) ListByOwnerID(ctx context.Context, ownerID int64) ([]*domain.Participant, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	var out []*domain.Participant
	for _, p := range m.participants {
		if p.OwnerID != nil && *p.OwnerID == ownerID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FullName < out[j].FullName })
	return out, nil
}

type mockEventRepository struct {
	events map[int64]*domain.Event
	nextID int64

	createErr error
	getErr    error
	listErr   error
}

func newMockEventRepository() *mockEventRepository {
	return &mockEventRepository{events: map[int64]*domain.Event{}}
}

func (m *mockEventRepository) add(e *domain.Event) *domain.Event {
	m.nextID++
	e.ID = m.nextID
	m.events[e.ID] = e
	return e
}

func (m *mockEventRepository) Create(ctx context.Context, e *domain.Event) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.add(e)
	return nil
}

func (m *mockEventRepository) GetByID(ctx context.Context, id int64) (*domain.Event, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	e, ok := m.events[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return e, nil
}

func (m *mockEventRepository) List(ctx context.Context) ([]*domain.Event, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]*domain.Event, 0, len(m.events))
	for _, e := range m.events {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

type mockRegistrationRepository struct {
	registrations []*domain.Registration
	details       []*domain.RegistrationDetail
	nextID        int64

	createErr error
	countErr  error
	listErr   error
	// computed against this owner map when set: participant id -> owner id
	owners map[int64]int64
}

func (m *mockRegistrationRepository) Create(ctx context.Context, reg *domain.Registration) error {
	if m.createErr != nil {
		return m.createErr
	}
	for _, existing := range m.registrations {
		if existing.EventID == reg.EventID && existing.ParticipantID == reg.ParticipantID {
			return domain.ErrAlreadyRegistered
		}
	}
	m.nextID++
	reg.ID = m.nextID
	m.registrations = append(m.registrations, reg)
	return nil
}

func (m *mockRegistrationRepository) CountByEventID(ctx context.Context, eventID int64) (int, error) {
	if m.countErr != nil {
		return 0, m.countErr
	}
	count := 0
	for _, reg := range m.registrations {
		if reg.EventID == eventID {
			count++
		}
	}
	return count, nil
}

func (m *mockRegistrationRepository) ListDetailed(ctx context.Context, eventID *int64) ([]*domain.RegistrationDetail, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	if eventID == nil {
		return m.details, nil
	}
	var out []*domain.RegistrationDetail
	for _, d := range m.details {
		if d.Registration.EventID == *eventID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (m *mockRegistrationRepository) ListEventIDsByOwnerID(ctx context.Context, ownerID int64) ([]int64, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	seen := map[int64]bool{}
	var out []int64
	for _, reg := range m.registrations {
		if m.owners[reg.ParticipantID] != ownerID || seen[reg.EventID] {
			continue
		}
		seen[reg.EventID] = true
		out = append(out, reg.EventID)
	}
	return out, nil
}

type mockUserRepository struct {
	users  map[int64]*domain.User
	nextID int64

	createErr error
	getErr    error
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{users: map[int64]*domain.User{}}
}

func (m *mockUserRepository) add(u *domain.User) *domain.User {
	m.nextID++
	u.ID = m.nextID
	m.users[u.ID] = u
	return u
}

func (m *mockUserRepository) Create(ctx context.Context, u *domain.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return domain.ErrDuplicateEmail
		}
	}
	m.add(u)
	return nil
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	u, ok := m.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

type mockEmailService struct {
	welcomeSent       []string
	confirmationsSent []*domain.RegistrationConfirmationEmailData
	err               error
}

func (m *mockEmailService) SendWelcomeMessage(ctx context.Context, data *domain.WelcomeMessageEmailData) error {
	if m.err != nil {
		return m.err
	}
	m.welcomeSent = append(m.welcomeSent, data.Email)
	return nil
}

func (m *mockEmailService) SendRegistrationConfirmation(ctx context.Context, data *domain.RegistrationConfirmationEmailData) error {
	if m.err != nil {
		return m.err
	}
	m.confirmationsSent = append(m.confirmationsSent, data)
	return nil
}

type mockHasher struct {
	saltErr error
	hashErr error
}

func (m *mockHasher) GenerateSalt() (string, error) {
	if m.saltErr != nil {
		return "", m.saltErr
	}
	return "salt", nil
}

func (m *mockHasher) Hash(salt, password string) (string, error) {
	if m.hashErr != nil {
		return "", m.hashErr
	}
	return "hashed:" + salt + ":" + password, nil
}

func (m *mockHasher) Compare(hash, salt, password string) error {
	if hash != "hashed:"+salt+":"+password {
		return domain.ErrInvalidCredentials
	}
	return nil
}

type mockTokenIssuer struct {
	err error
}

func (m *mockTokenIssuer) Issue(userID int64, email string, role domain.Role, expiry time.Duration) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return "token", nil
}
