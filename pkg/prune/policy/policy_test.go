package policy

import (
	"errors"
	"testing"
	"time"
)

func TestNew_AgeValidation(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		want    time.Duration
		wantErr error
	}{
		{name: "one day", opts: Options{Days: 1}, want: 24 * time.Hour},
		{name: "summed components", opts: Options{Days: 1, Hours: 2, Minutes: 30}, want: 26*time.Hour + 30*time.Minute},
		{name: "six minutes", opts: Options{Minutes: 6}, want: 6 * time.Minute},
		{name: "exactly five minutes", opts: Options{Minutes: 5}, wantErr: ErrAgeTooSmall},
		{name: "zero", opts: Options{}, wantErr: ErrAgeTooSmall},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := New(tt.opts)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("New() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			if p.MaxAge != tt.want {
				t.Errorf("MaxAge = %v, want %v", p.MaxAge, tt.want)
			}
		})
	}
}

func TestNew_BatchSizeValidation(t *testing.T) {
	for _, size := range []int{0, 1, 2, 50, 100} {
		if _, err := New(Options{Days: 1, BatchSize: size}); err != nil {
			t.Errorf("New(batch=%d) error = %v", size, err)
		}
	}
	for _, size := range []int{-1, 101, 1000} {
		if _, err := New(Options{Days: 1, BatchSize: size}); !errors.Is(err, ErrBatchSize) {
			t.Errorf("New(batch=%d) error = %v, want ErrBatchSize", size, err)
		}
	}
}

func TestNew_PatternValidation(t *testing.T) {
	if _, err := New(Options{Days: 1, IncludePattern: "("}); !errors.Is(err, ErrBadPattern) {
		t.Errorf("bad include: error = %v, want ErrBadPattern", err)
	}
	if _, err := New(Options{Days: 1, ExcludePattern: "["}); !errors.Is(err, ErrBadPattern) {
		t.Errorf("bad exclude: error = %v, want ErrBadPattern", err)
	}

	p, err := New(Options{Days: 1, IncludePattern: `\.log$`, ExcludePattern: "keep"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if p.Include == nil || p.Exclude == nil {
		t.Error("patterns not compiled")
	}
}

func TestNew_Roots(t *testing.T) {
	p, err := New(Options{Days: 1})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if len(p.Roots) != 1 || p.Roots[0] != DefaultRoot {
		t.Errorf("Roots = %v, want [%s]", p.Roots, DefaultRoot)
	}

	p, err = New(Options{Days: 1, Roots: []string{"/a", "/b", "/a", "", "/c", "/b"}})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	want := []string{"/a", "/b", "/c"}
	if len(p.Roots) != len(want) {
		t.Fatalf("Roots = %v, want %v", p.Roots, want)
	}
	for i := range want {
		if p.Roots[i] != want[i] {
			t.Errorf("Roots[%d] = %q, want %q", i, p.Roots[i], want[i])
		}
	}
}

func TestNew_DryRunDefault(t *testing.T) {
	p, err := New(Options{Days: 1})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if !p.DryRun {
		t.Error("DryRun = false by default, want true")
	}

	p, err = New(Options{Days: 1, Delete: true})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if p.DryRun {
		t.Error("DryRun = true with Delete, want false")
	}
}

func TestExceedsAge_Boundary(t *testing.T) {
	p, err := New(Options{Days: 1})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	now := time.Date(2024, time.June, 16, 12, 0, 0, 0, time.Local)

	tests := []struct {
		name       string
		modifiedAt time.Time
		want       bool
	}{
		{name: "25 hours old", modifiedAt: now.Add(-25 * time.Hour), want: true},
		{name: "exactly 24 hours old", modifiedAt: now.Add(-24 * time.Hour), want: false},
		{name: "one minute past threshold", modifiedAt: now.Add(-24*time.Hour - time.Minute), want: true},
		{name: "brand new", modifiedAt: now, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.ExceedsAge(now, tt.modifiedAt); got != tt.want {
				t.Errorf("ExceedsAge() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestImmediate(t *testing.T) {
	for size, want := range map[int]bool{0: true, 1: true, 2: false, 100: false} {
		p, err := New(Options{Days: 1, BatchSize: size})
		if err != nil {
			t.Fatalf("New(batch=%d) error = %v", size, err)
		}
		if got := p.Immediate(); got != want {
			t.Errorf("Immediate(batch=%d) = %v, want %v", size, got, want)
		}
	}
}

func TestThresholdString(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want string
	}{
		{name: "one day", opts: Options{Days: 1}, want: "1 day"},
		{name: "days and hours", opts: Options{Days: 2, Hours: 3}, want: "2 days 3 hours"},
		{name: "minutes only", opts: Options{Minutes: 45}, want: "45 minutes"},
		{name: "singular everywhere", opts: Options{Days: 1, Hours: 1, Minutes: 1}, want: "1 day 1 hour 1 minute"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := New(tt.opts)
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			if got := p.ThresholdString(); got != tt.want {
				t.Errorf("ThresholdString() = %q, want %q", got, tt.want)
			}
		})
	}
}
