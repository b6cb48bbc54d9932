package sqlstore

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"diagnostics-backend/internal/models"
	"diagnostics-backend/internal/store"
)

type userRepo struct{ db *gorm.DB }

func (r *userRepo) Create(ctx context.Context, u *models.User) error {
	u.ID = models.NewObjectID()
	return translate(r.db.WithContext(ctx).Create(u).Error)
}

func (r *userRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).Take(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

type patientRepo struct{ db *gorm.DB }

func (r *patientRepo) Create(ctx context.Context, p *models.Patient) error {
	p.ID = models.NewObjectID()
	return translate(r.db.WithContext(ctx).Create(p).Error)
}

// Last relies on ObjectID hex ordering following insertion time.
func (r *patientRepo) Last(ctx context.Context) (*models.Patient, error) {
	var p models.Patient
	if err := r.db.WithContext(ctx).Order("id DESC").Take(&p).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *patientRepo) List(ctx context.Context) ([]models.Patient, error) {
	out := []models.Patient{}
	err := r.db.WithContext(ctx).Order("id").Find(&out).Error
	return out, err
}

func (r *patientRepo) ListByStatus(ctx context.Context, status string) ([]models.Patient, error) {
	out := []models.Patient{}
	err := r.db.WithContext(ctx).Where("status = ?", status).Order("id").Find(&out).Error
	return out, err
}

func (r *patientRepo) Get(ctx context.Context, id models.ObjectID) (*models.Patient, error) {
	var p models.Patient
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&p).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *patientRepo) UpdateStatus(ctx context.Context, id models.ObjectID, status string) (*models.Patient, error) {
	p, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Model(p).Update("status", status).Error; err != nil {
		return nil, translate(err)
	}
	p.Status = status
	return p, nil
}

func (r *patientRepo) UpdatePaymentStatus(ctx context.Context, patientNo, paymentStatus string) (*models.Patient, error) {
	var p models.Patient
	db := r.db.WithContext(ctx)
	if err := db.Where("patient_no = ?", patientNo).Take(&p).Error; err != nil {
		return nil, translate(err)
	}
	if err := db.Model(&p).Update("payment_status", paymentStatus).Error; err != nil {
		return nil, translate(err)
	}
	p.PaymentStatus = paymentStatus
	return &p, nil
}

func (r *patientRepo) Delete(ctx context.Context, id models.ObjectID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Patient{})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

type bookingRepo struct{ db *gorm.DB }

// Create takes the next counter value and inserts the booking in one
// transaction, so a failed insert does not burn a number.
func (r *bookingRepo) Create(ctx context.Context, b *models.TestBooking) error {
	return translate(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c := counter{Name: bookingCounterName}
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where(counter{Name: bookingCounterName}).
			FirstOrCreate(&c).Error; err != nil {
			return err
		}
		c.Seq++
		if err := tx.Model(&c).Update("seq", c.Seq).Error; err != nil {
			return err
		}

		now := time.Now().UTC()
		b.ID = models.NewObjectID()
		b.PatientNo = c.Seq
		b.CreatedAt, b.UpdatedAt = now, now
		return tx.Create(b).Error
	}))
}

func (r *bookingRepo) List(ctx context.Context) ([]models.TestBooking, error) {
	out := []models.TestBooking{}
	err := r.db.WithContext(ctx).Order("id").Find(&out).Error
	return out, err
}

func (r *bookingRepo) DeleteMany(ctx context.Context, ids []models.ObjectID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&models.TestBooking{})
	return res.RowsAffected, translate(res.Error)
}

type printedRepo struct{ db *gorm.DB }

// InsertMany writes in batches; batches committed before a failure stay.
func (r *printedRepo) InsertMany(ctx context.Context, tests []*models.PrintedTest) error {
	if len(tests) == 0 {
		return nil
	}
	for _, t := range tests {
		t.ID = models.NewObjectID()
	}
	return translate(r.db.WithContext(ctx).CreateInBatches(tests, 100).Error)
}

func (r *printedRepo) List(ctx context.Context) ([]models.PrintedTest, error) {
	out := []models.PrintedTest{}
	err := r.db.WithContext(ctx).Order("id").Find(&out).Error
	return out, err
}

func (r *printedRepo) Get(ctx context.Context, id models.ObjectID) (*models.PrintedTest, error) {
	var t models.PrintedTest
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&t).Error; err != nil {
		return nil, translate(err)
	}
	return &t, nil
}

// Summary mirrors the Mongo $dateToString keys: %v is the ISO week in MySQL.
func (r *printedRepo) Summary(ctx context.Context) (*store.Summary, error) {
	monthly, err := r.groupBy(ctx, "DATE_FORMAT(`date`, '%Y-%m')")
	if err != nil {
		return nil, err
	}
	weekly, err := r.groupBy(ctx, "DATE_FORMAT(`date`, '%Y-%v')")
	if err != nil {
		return nil, err
	}
	gender, err := r.groupBy(ctx, "COALESCE(sex, '')")
	if err != nil {
		return nil, err
	}
	return &store.Summary{Monthly: monthly, Weekly: weekly, Gender: gender}, nil
}

func (r *printedRepo) groupBy(ctx context.Context, keyExpr string) ([]store.PriceBucket, error) {
	out := []store.PriceBucket{}
	err := r.db.WithContext(ctx).
		Model(&models.PrintedTest{}).
		Select(keyExpr + " AS bucket, COALESCE(SUM(price_naira), 0) AS total_price").
		Group("bucket").
		Order("bucket").
		Scan(&out).Error
	return out, err
}

type contactRepo struct{ db *gorm.DB }

func (r *contactRepo) Create(ctx context.Context, f *models.ContactForm) error {
	f.ID = models.NewObjectID()
	return translate(r.db.WithContext(ctx).Create(f).Error)
}
