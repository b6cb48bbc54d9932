package patientno

import (
	"context"
	"errors"
	"sync"
	"testing"

	"diagnostics-backend/internal/models"
	"diagnostics-backend/internal/store"
	"diagnostics-backend/internal/store/memstore"
)

func TestNext_SequentialFromEmptyStore(t *testing.T) {
	repos := memstore.New()
	gen := New(repos.Patients)
	ctx := context.Background()

	for _, want := range []string{"P1000", "P1001", "P1002", "P1003"} {
		no, err := gen.Next(ctx)
		if err != nil {
			t.Fatalf("next: %v", err)
		}
		if no != want {
			t.Fatalf("expected %s, got %s", want, no)
		}
		if err := repos.Patients.Create(ctx, &models.Patient{PatientNo: no}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
}

func TestNext_FollowsInsertionOrderNotValue(t *testing.T) {
	repos := memstore.New()
	ctx := context.Background()
	repos.Patients.Create(ctx, &models.Patient{PatientNo: "P5000"})
	repos.Patients.Create(ctx, &models.Patient{PatientNo: "P1200"})

	no, err := New(repos.Patients).Next(ctx)
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if no != "P1201" {
		t.Errorf("expected P1201, got %s", no)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want int64
		err  bool
	}{
		{"P1000", 1000, false},
		{"P42", 42, false},
		{"X77", 77, false},
		{"P12abc", 12, false},
		{"P", 0, true},
		{"", 0, true},
		{"Pabc", 0, true},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in)
		if tt.err {
			if !errors.Is(err, ErrMalformed) {
				t.Errorf("%q: expected ErrMalformed, got %v", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("%q: got %d, %v; want %d", tt.in, got, err, tt.want)
		}
	}
}

type failingFinder struct{}

func (failingFinder) Last(context.Context) (*models.Patient, error) {
	return nil, errors.New("connection reset")
}

func TestNext_PropagatesStoreErrors(t *testing.T) {
	if _, err := New(failingFinder{}).Next(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

// gatedFinder holds every Last call until all callers have read, which is
// the interleaving two simultaneous registrations can hit.
type gatedFinder struct {
	inner LastFinder
	wg    *sync.WaitGroup
}

func (g gatedFinder) Last(ctx context.Context) (*models.Patient, error) {
	p, err := g.inner.Last(ctx)
	g.wg.Done()
	g.wg.Wait()
	return p, err
}

func TestNext_ConcurrentRegistrationsCanCollide(t *testing.T) {
	repos := memstore.New()
	ctx := context.Background()
	repos.Patients.Create(ctx, &models.Patient{PatientNo: "P1000"})

	const callers = 2
	var barrier sync.WaitGroup
	barrier.Add(callers)
	gen := New(gatedFinder{inner: repos.Patients, wg: &barrier})

	numbers := make([]string, callers)
	var done sync.WaitGroup
	for i := 0; i < callers; i++ {
		done.Add(1)
		go func(i int) {
			defer done.Done()
			no, err := gen.Next(ctx)
			if err != nil {
				t.Errorf("next: %v", err)
				return
			}
			numbers[i] = no
		}(i)
	}
	done.Wait()

	if numbers[0] != numbers[1] {
		t.Fatalf("expected both callers to receive the same number, got %v", numbers)
	}

	// The unique patient_no index turns the collision into a failed insert.
	if err := repos.Patients.Create(ctx, &models.Patient{PatientNo: numbers[0]}); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	if err := repos.Patients.Create(ctx, &models.Patient{PatientNo: numbers[1]}); !errors.Is(err, store.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate for the colliding insert, got %v", err)
	}
}
