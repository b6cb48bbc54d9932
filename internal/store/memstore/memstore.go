// Package memstore keeps every collection in process memory. It backs the
// handler tests and STORE_DRIVER=memory for local work; data is lost on exit.
package memstore

import (
	"context"
	"sync"
	"time"

	"diagnostics-backend/internal/models"
	"diagnostics-backend/internal/store"
)

type db struct {
	mu sync.RWMutex

	users      []models.User
	patients   []models.Patient
	bookings   []models.TestBooking
	printed    []models.PrintedTest
	contacts   []models.ContactForm
	bookingSeq int64
	now        func() time.Time
}

// New returns an empty in-memory store.
func New() *store.Repositories {
	d := &db{now: time.Now}
	return &store.Repositories{
		Users:        &userRepo{d},
		Patients:     &patientRepo{d},
		TestBookings: &bookingRepo{d},
		PrintedTests: &printedRepo{d},
		ContactForms: &contactRepo{d},
		Backend:      d,
	}
}

func (d *db) Ping(context.Context) error { return nil }
func (d *db) EnsureSchema(context.Context) error { return nil }
func (d *db) Close(context.Context) error { return nil }

type userRepo struct{ *db }

func (r *userRepo) Create(_ context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return store.ErrDuplicate
		}
	}
	now := r.now()
	u.ID = models.NewObjectID()
	u.CreatedAt, u.UpdatedAt = now, now
	r.users = append(r.users, *u)
	return nil
}

func (r *userRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Email == email {
			out := u
			return &out, nil
		}
	}
	return nil, store.ErrNotFound
}

type patientRepo struct{ *db }

func (r *patientRepo) Create(_ context.Context, p *models.Patient) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.PatientNo != "" {
		for _, existing := range r.patients {
			if existing.PatientNo == p.PatientNo {
				return store.ErrDuplicate
			}
		}
	}
	p.ID = models.NewObjectID()
	r.patients = append(r.patients, *p)
	return nil
}

func (r *patientRepo) Last(context.Context) (*models.Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.patients) == 0 {
		return nil, store.ErrNotFound
	}
	out := r.patients[len(r.patients)-1]
	return &out, nil
}

func (r *patientRepo) List(context.Context) ([]models.Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]models.Patient{}, r.patients...), nil
}

func (r *patientRepo) ListByStatus(_ context.Context, status string) ([]models.Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []models.Patient{}
	for _, p := range r.patients {
		if p.Status == status {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *patientRepo) indexOf(id models.ObjectID) int {
	for i, p := range r.patients {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (r *patientRepo) Get(_ context.Context, id models.ObjectID) (*models.Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i := r.indexOf(id)
	if i < 0 {
		return nil, store.ErrNotFound
	}
	out := r.patients[i]
	return &out, nil
}

func (r *patientRepo) UpdateStatus(_ context.Context, id models.ObjectID, status string) (*models.Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexOf(id)
	if i < 0 {
		return nil, store.ErrNotFound
	}
	r.patients[i].Status = status
	out := r.patients[i]
	return &out, nil
}

func (r *patientRepo) UpdatePaymentStatus(_ context.Context, patientNo, paymentStatus string) (*models.Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.patients {
		if r.patients[i].PatientNo == patientNo {
			r.patients[i].PaymentStatus = paymentStatus
			out := r.patients[i]
			return &out, nil
		}
	}
	return nil, store.ErrNotFound
}

func (r *patientRepo) Delete(_ context.Context, id models.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexOf(id)
	if i < 0 {
		return store.ErrNotFound
	}
	r.patients = append(r.patients[:i], r.patients[i+1:]...)
	return nil
}

type bookingRepo struct{ *db }

func (r *bookingRepo) Create(_ context.Context, b *models.TestBooking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b.LabNo != nil && *b.LabNo != "" {
		for _, existing := range r.bookings {
			if existing.LabNo != nil && *existing.LabNo == *b.LabNo {
				return store.ErrDuplicate
			}
		}
	}
	r.bookingSeq++
	now := r.now()
	b.ID = models.NewObjectID()
	b.PatientNo = r.bookingSeq
	b.CreatedAt, b.UpdatedAt = now, now
	r.bookings = append(r.bookings, *b)
	return nil
}

func (r *bookingRepo) List(context.Context) ([]models.TestBooking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]models.TestBooking{}, r.bookings...), nil
}

func (r *bookingRepo) DeleteMany(_ context.Context, ids []models.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	drop := make(map[models.ObjectID]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	kept := r.bookings[:0]
	var deleted int64
	for _, b := range r.bookings {
		if drop[b.ID] {
			deleted++
			continue
		}
		kept = append(kept, b)
	}
	r.bookings = kept
	return deleted, nil
}

type printedRepo struct{ *db }

func (r *printedRepo) InsertMany(_ context.Context, tests []*models.PrintedTest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	for _, t := range tests {
		t.ID = models.NewObjectID()
		t.CreatedAt, t.UpdatedAt = now, now
		r.printed = append(r.printed, *t)
	}
	return nil
}

func (r *printedRepo) List(context.Context) ([]models.PrintedTest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]models.PrintedTest{}, r.printed...), nil
}

func (r *printedRepo) Get(_ context.Context, id models.ObjectID) (*models.PrintedTest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, t := range r.printed {
		if t.ID == id {
			out := t
			return &out, nil
		}
	}
	return nil, store.ErrNotFound
}

func (r *printedRepo) Summary(context.Context) (*store.Summary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	monthly, weekly, gender := store.NewAccumulator(), store.NewAccumulator(), store.NewAccumulator()
	for _, t := range r.printed {
		var price float64
		if t.PriceNaira != nil {
			price = *t.PriceNaira
		}
		monthly.Add(store.MonthKey(t.Date), price)
		weekly.Add(store.WeekKey(t.Date), price)
		gender.Add(t.Sex, price)
	}
	return &store.Summary{
		Monthly: monthly.Buckets(),
		Weekly:  weekly.Buckets(),
		Gender:  gender.Buckets(),
	}, nil
}

type contactRepo struct{ *db }

func (r *contactRepo) Create(_ context.Context, f *models.ContactForm) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	f.ID = models.NewObjectID()
	r.contacts = append(r.contacts, *f)
	return nil
}
