package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/colegium/campus-api/internal/model"
	"github.com/colegium/campus-api/internal/queue"
)

type fakeNotificationStore struct {
	nextID  uint64
	created []model.Notification
	err     error
}

func (f *fakeNotificationStore) Create(_ context.Context, n *model.Notification) error {
	if f.err != nil {
		return f.err
	}
	f.nextID++
	n.ID = f.nextID
	f.created = append(f.created, *n)
	return nil
}

type recordingPublisher struct {
	events []queue.NotificationCreatedEvent
	err    error
}

func (r *recordingPublisher) PublishNotificationCreated(_ context.Context, ev queue.NotificationCreatedEvent) error {
	if r.err != nil {
		return r.err
	}
	r.events = append(r.events, ev)
	return nil
}

func TestNotificationCreatePublishesEvent(t *testing.T) {
	store := &fakeNotificationStore{}
	pub := &recordingPublisher{}
	svc := NewNotificationService(store, pub)

	userID := uint64(9)
	n := model.Notification{AccountID: 3, UserID: &userID, Title: "Reunión", Body: "Mañana 10:00"}
	require.NoError(t, svc.Create(context.Background(), &n))
	require.NotZero(t, n.ID)

	require.Len(t, pub.events, 1)
	ev := pub.events[0]
	require.Equal(t, n.ID, ev.NotificationID)
	require.Equal(t, uint64(3), ev.AccountID)
	require.Equal(t, uint64(9), ev.UserID)
	require.Equal(t, "Reunión", ev.Title)
}

func TestNotificationCreateAccountWide(t *testing.T) {
	store := &fakeNotificationStore{}
	pub := &recordingPublisher{}
	svc := NewNotificationService(store, pub)

	n := model.Notification{AccountID: 3, Title: "Aviso", Body: "Para todos"}
	require.NoError(t, svc.Create(context.Background(), &n))
	require.Len(t, pub.events, 1)
	require.Zero(t, pub.events[0].UserID)
}

func TestNotificationCreateSurvivesBrokerOutage(t *testing.T) {
	store := &fakeNotificationStore{}
	pub := &recordingPublisher{err: errors.New("broker down")}
	svc := NewNotificationService(store, pub)

	n := model.Notification{AccountID: 3, Title: "Aviso", Body: "x"}
	require.NoError(t, svc.Create(context.Background(), &n), "publish failure must not fail the request")
	require.Len(t, store.created, 1)
}

func TestNotificationCreateStoreFailureSkipsPublish(t *testing.T) {
	store := &fakeNotificationStore{err: errors.New("db down")}
	pub := &recordingPublisher{}
	svc := NewNotificationService(store, pub)

	n := model.Notification{AccountID: 3, Title: "Aviso", Body: "x"}
	require.Error(t, svc.Create(context.Background(), &n))
	require.Empty(t, pub.events)
}

func TestNotificationCreateNilPublisher(t *testing.T) {
	store := &fakeNotificationStore{}
	svc := NewNotificationService(store, nil)

	n := model.Notification{AccountID: 3, Title: "Aviso", Body: "x"}
	require.NoError(t, svc.Create(context.Background(), &n))
}
