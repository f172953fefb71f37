package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/popuphq/passes-api/internal/domain"
)

type fakeApplicationRepo struct {
	apps   map[uint]domain.Application
	nextID uint
}

func newFakeApplicationRepo() *fakeApplicationRepo {
	return &fakeApplicationRepo{
		apps:   make(map[uint]domain.Application),
		nextID: 1,
	}
}

func (f *fakeApplicationRepo) Create(_ context.Context, application domain.Application) (domain.Application, error) {
	application.ID = f.nextID
	for i := range application.Attendees {
		application.Attendees[i].ID = f.nextID*100 + uint(i)
	}
	f.apps[application.ID] = application
	f.nextID++

	return application, nil
}

func (f *fakeApplicationRepo) GetByID(_ context.Context, id uint) (domain.Application, error) {
	app, ok := f.apps[id]
	if !ok {
		return domain.Application{}, ErrApplicationNotFound
	}

	return app, nil
}

func (f *fakeApplicationRepo) GetByUserID(_ context.Context, userID uint) ([]domain.Application, error) {
	var apps []domain.Application
	for _, app := range f.apps {
		if app.UserID == userID {
			apps = append(apps, app)
		}
	}

	return apps, nil
}

func (f *fakeApplicationRepo) GetByPopupID(_ context.Context, popupID uint) ([]domain.Application, error) {
	var apps []domain.Application
	for _, app := range f.apps {
		if app.PopupID == popupID {
			apps = append(apps, app)
		}
	}

	return apps, nil
}

func (f *fakeApplicationRepo) UpdateStatus(_ context.Context, id uint, status domain.ApplicationStatus) error {
	app, ok := f.apps[id]
	if !ok {
		return ErrApplicationNotFound
	}
	app.Status = status
	f.apps[id] = app

	return nil
}

func (f *fakeApplicationRepo) AddAttendee(_ context.Context, applicationID uint, attendee domain.Attendee) (domain.Attendee, error) {
	app := f.apps[applicationID]
	attendee.ID = uint(len(app.Attendees)) + applicationID*100
	app.Attendees = append(app.Attendees, attendee)
	f.apps[applicationID] = app

	return attendee, nil
}

func (f *fakeApplicationRepo) RemoveAttendee(_ context.Context, attendeeID uint) error {
	for id, app := range f.apps {
		for i, a := range app.Attendees {
			if a.ID == attendeeID {
				app.Attendees = append(app.Attendees[:i], app.Attendees[i+1:]...)
				f.apps[id] = app

				return nil
			}
		}
	}

	return ErrAttendeeNotFound
}

func draftApplication() domain.Application {
	return domain.Application{
		PopupID: 3,
		UserID:  42,
		Attendees: []domain.Attendee{
			{Name: "Ada", Category: domain.AttendeeMain},
			{Name: "Kim", Category: domain.AttendeeKid},
		},
	}
}

func TestApplicationService_Create(t *testing.T) {
	svc := NewApplicationService(newFakeApplicationRepo())

	created, err := svc.Create(context.Background(), draftApplication())
	require.NoError(t, err)

	assert.Equal(t, domain.ApplicationDraft, created.Status)
	assert.Len(t, created.Attendees, 2)
}

func TestApplicationService_Create_RequiresOneMain(t *testing.T) {
	svc := NewApplicationService(newFakeApplicationRepo())

	app := draftApplication()
	app.Attendees[0].Category = domain.AttendeeSpouse

	_, err := svc.Create(context.Background(), app)
	assert.ErrorIs(t, err, ErrRosterNeedsMain)

	app = draftApplication()
	app.Attendees[1].Category = domain.AttendeeMain

	_, err = svc.Create(context.Background(), app)
	assert.ErrorIs(t, err, ErrRosterNeedsMain)
}

func TestApplicationService_Submit(t *testing.T) {
	svc := NewApplicationService(newFakeApplicationRepo())

	created, err := svc.Create(context.Background(), draftApplication())
	require.NoError(t, err)

	submitted, err := svc.Submit(context.Background(), 42, created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ApplicationPending, submitted.Status)

	// A second submit is rejected.
	_, err = svc.Submit(context.Background(), 42, created.ID)
	assert.ErrorIs(t, err, ErrInvalidApplicationStatus)
}

func TestApplicationService_Submit_NotOwner(t *testing.T) {
	svc := NewApplicationService(newFakeApplicationRepo())

	created, err := svc.Create(context.Background(), draftApplication())
	require.NoError(t, err)

	_, err = svc.Submit(context.Background(), 999, created.ID)
	assert.ErrorIs(t, err, ErrNotApplicationOwner)
}

func TestApplicationService_Review(t *testing.T) {
	repo := newFakeApplicationRepo()
	svc := NewApplicationService(repo)

	created, err := svc.Create(context.Background(), draftApplication())
	require.NoError(t, err)

	// Draft applications cannot be reviewed.
	_, err = svc.Review(context.Background(), created.ID, true)
	assert.ErrorIs(t, err, ErrInvalidApplicationStatus)

	_, err = svc.Submit(context.Background(), 42, created.ID)
	require.NoError(t, err)

	reviewed, err := svc.Review(context.Background(), created.ID, true)
	require.NoError(t, err)
	assert.Equal(t, domain.ApplicationAccepted, reviewed.Status)

	rejectedApp, err := svc.Create(context.Background(), draftApplication())
	require.NoError(t, err)
	_, err = svc.Submit(context.Background(), 42, rejectedApp.ID)
	require.NoError(t, err)

	reviewed, err = svc.Review(context.Background(), rejectedApp.ID, false)
	require.NoError(t, err)
	assert.Equal(t, domain.ApplicationRejected, reviewed.Status)
}

func TestApplicationService_AddAttendee(t *testing.T) {
	svc := NewApplicationService(newFakeApplicationRepo())

	created, err := svc.Create(context.Background(), draftApplication())
	require.NoError(t, err)

	attendee, err := svc.AddAttendee(context.Background(), 42, created.ID, domain.Attendee{
		Name:     "Sam",
		Category: domain.AttendeeSpouse,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.AttendeeSpouse, attendee.Category)

	// A second main attendee is rejected.
	_, err = svc.AddAttendee(context.Background(), 42, created.ID, domain.Attendee{
		Name:     "Max",
		Category: domain.AttendeeMain,
	})
	assert.ErrorIs(t, err, ErrRosterNeedsMain)
}

func TestApplicationService_AddAttendee_SubmittedNotEditable(t *testing.T) {
	svc := NewApplicationService(newFakeApplicationRepo())

	created, err := svc.Create(context.Background(), draftApplication())
	require.NoError(t, err)
	_, err = svc.Submit(context.Background(), 42, created.ID)
	require.NoError(t, err)

	_, err = svc.AddAttendee(context.Background(), 42, created.ID, domain.Attendee{
		Name:     "Sam",
		Category: domain.AttendeeSpouse,
	})
	assert.ErrorIs(t, err, ErrApplicationNotEditable)
}

func TestApplicationService_RemoveAttendee(t *testing.T) {
	svc := NewApplicationService(newFakeApplicationRepo())

	created, err := svc.Create(context.Background(), draftApplication())
	require.NoError(t, err)

	// The main attendee cannot be removed.
	err = svc.RemoveAttendee(context.Background(), 42, created.ID, created.Attendees[0].ID)
	assert.ErrorIs(t, err, ErrRosterNeedsMain)

	err = svc.RemoveAttendee(context.Background(), 42, created.ID, created.Attendees[1].ID)
	require.NoError(t, err)

	got, err := svc.Get(context.Background(), 42, created.ID)
	require.NoError(t, err)
	assert.Len(t, got.Attendees, 1)
}
