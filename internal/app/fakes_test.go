package app

import (
	"context"
	"sort"
	"time"

	"cycle_companion_bot/internal/domain/entry"
	"cycle_companion_bot/internal/domain/notification"
	"cycle_companion_bot/internal/domain/partner"
	"cycle_companion_bot/internal/domain/user"
	idb "cycle_companion_bot/internal/infra/database"

	"gopkg.in/telebot.v3"
)

// In-memory repository fakes sharing the infra sentinel errors, so the
// services' errors.Is branches behave exactly as against Postgres.

type fakeUserRepo struct {
	users  map[int64]*user.User
	nextID int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int64]*user.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, u *user.User) error {
	r.nextID++
	u.ID = r.nextID
	u.CreatedAt = time.Now()
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (*user.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, idb.ErrUserNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) GetByTelegramID(_ context.Context, telegramID int64) (*user.User, error) {
	for _, u := range r.users {
		if u.TelegramID == telegramID {
			return u, nil
		}
	}
	return nil, idb.ErrUserNotFound
}

func (r *fakeUserRepo) Update(_ context.Context, u *user.User) error {
	if _, ok := r.users[u.ID]; !ok {
		return idb.ErrUserNotFound
	}
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) ListNotifiable(_ context.Context) ([]*user.User, error) {
	var out []*user.User
	for _, u := range r.users {
		if u.NotificationsEnabled {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type fakeEntryRepo struct {
	entries []*entry.Entry
	nextID  int64
}

func (r *fakeEntryRepo) Create(_ context.Context, e *entry.Entry) error {
	r.nextID++
	e.ID = r.nextID
	e.CreatedAt = time.Now()
	r.entries = append(r.entries, e)
	return nil
}

func (r *fakeEntryRepo) GetLatestByUser(_ context.Context, userID int64) (*entry.Entry, error) {
	var latest *entry.Entry
	for _, e := range r.entries {
		if e.UserID != userID {
			continue
		}
		if latest == nil || e.EntryDate.After(latest.EntryDate) {
			latest = e
		}
	}
	if latest == nil {
		return nil, idb.ErrEntryNotFound
	}
	return latest, nil
}

func (r *fakeEntryRepo) ListByUser(_ context.Context, userID int64) ([]*entry.Entry, error) {
	var out []*entry.Entry
	for _, e := range r.entries {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EntryDate.Before(out[j].EntryDate) })
	return out, nil
}

type fakePartnerRepo struct {
	partners map[int64]*partner.Partner
	nextID   int64
}

func newFakePartnerRepo() *fakePartnerRepo {
	return &fakePartnerRepo{partners: make(map[int64]*partner.Partner)}
}

func (r *fakePartnerRepo) Create(_ context.Context, p *partner.Partner) error {
	for _, existing := range r.partners {
		if existing.TelegramID == p.TelegramID {
			return idb.ErrDuplicatePartner
		}
	}
	r.nextID++
	p.ID = r.nextID
	p.CreatedAt = time.Now()
	r.partners[p.ID] = p
	return nil
}

func (r *fakePartnerRepo) GetByID(_ context.Context, id int64) (*partner.Partner, error) {
	p, ok := r.partners[id]
	if !ok {
		return nil, idb.ErrPartnerNotFound
	}
	return p, nil
}

func (r *fakePartnerRepo) GetByTelegramID(_ context.Context, telegramID int64) (*partner.Partner, error) {
	for _, p := range r.partners {
		if p.TelegramID == telegramID {
			return p, nil
		}
	}
	return nil, idb.ErrPartnerNotFound
}

func (r *fakePartnerRepo) ListByUser(_ context.Context, userID int64) ([]*partner.Partner, error) {
	var out []*partner.Partner
	for _, p := range r.partners {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakePartnerRepo) Delete(_ context.Context, id int64, userID int64) error {
	p, ok := r.partners[id]
	if !ok || p.UserID != userID {
		return idb.ErrPartnerNotFound
	}
	delete(r.partners, id)
	return nil
}

type fakeNotificationRepo struct {
	records []*notification.Record
	nextID  int64
}

func (r *fakeNotificationRepo) Create(_ context.Context, n *notification.Record) error {
	r.nextID++
	n.ID = r.nextID
	r.records = append(r.records, n)
	return nil
}

func (r *fakeNotificationRepo) ListRecentByUser(_ context.Context, userID int64, since time.Time) ([]*notification.Record, error) {
	var out []*notification.Record
	for _, n := range r.records {
		if n.UserID == userID && !n.SentAt.Before(since) {
			out = append(out, n)
		}
	}
	return out, nil
}

// fakeTelegramClient records every outgoing message.
type sentMessage struct {
	ChatID int64
	Text   string
}

type fakeTelegramClient struct {
	sent []sentMessage
}

func (c *fakeTelegramClient) SendMessage(recipientChatID int64, text string, _ *telebot.SendOptions) error {
	c.sent = append(c.sent, sentMessage{ChatID: recipientChatID, Text: text})
	return nil
}
