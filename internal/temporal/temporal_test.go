package temporal

import (
	"testing"
	"time"
)

func TestParseDate_DayFirst(t *testing.T) {
	t.Parallel()

	d := ParseDate("10/12/2025")
	if d == nil {
		t.Fatalf("expected parse")
	}
	if d.Year() != 2025 || d.Month() != time.December || d.Day() != 10 {
		t.Fatalf("day-first violated: %v", d)
	}

	d = ParseDate("05/01/2026 14:30:00")
	if d == nil || d.Month() != time.January || d.Day() != 5 {
		t.Fatalf("datetime day-first violated: %v", d)
	}

	d = ParseDate("2025-12-10")
	if d == nil || d.Month() != time.December || d.Day() != 10 {
		t.Fatalf("iso fallback violated: %v", d)
	}
}

func TestParseDate_Unparsable(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"", "   ", "n/a", "32/13/2025"} {
		if d := ParseDate(s); d != nil {
			t.Fatalf("%q: expected nil, got %v", s, d)
		}
	}
}

func TestAmplitude_Normal(t *testing.T) {
	t.Parallel()

	if got := Amplitude("09:00:00", "18:00:00"); got != 9.0 {
		t.Fatalf("want 9.0 got %v", got)
	}
	if got := Amplitude("08:30:00", "17:00:00"); got != 8.5 {
		t.Fatalf("want 8.5 got %v", got)
	}
}

func TestAmplitude_OvernightWraparound(t *testing.T) {
	t.Parallel()

	// 22 点开门凌晨 2 点打烊 = 4 小时，不是 -20
	if got := Amplitude("22:00:00", "02:00:00"); got != 4.0 {
		t.Fatalf("want 4.0 got %v", got)
	}
}

func TestAmplitude_MissingOrInvalid(t *testing.T) {
	t.Parallel()

	if got := Amplitude("", "18:00:00"); got != 0 {
		t.Fatalf("missing opening: got %v", got)
	}
	if got := Amplitude("09:00:00", "abc"); got != 0 {
		t.Fatalf("invalid closing: got %v", got)
	}
	if got := Amplitude("25:00:00", "18:00:00"); got != 0 {
		t.Fatalf("out of range hour: got %v", got)
	}
}

func TestTenureDays(t *testing.T) {
	t.Parallel()

	created := time.Date(2025, 12, 10, 8, 0, 0, 0, time.UTC)
	ref := time.Date(2026, 1, 9, 23, 0, 0, 0, time.UTC)
	if got := TenureDays(&created, &ref); got != 30 {
		t.Fatalf("want 30 got %d", got)
	}

	// 创建日期晚于参考日期时夹紧为 0
	late := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	if got := TenureDays(&late, &ref); got != 0 {
		t.Fatalf("clamp: want 0 got %d", got)
	}

	if got := TenureDays(nil, &ref); got != 0 {
		t.Fatalf("nil created: want 0 got %d", got)
	}
	if got := TenureDays(&created, nil); got != 0 {
		t.Fatalf("nil reference: want 0 got %d", got)
	}
}

func TestLatest(t *testing.T) {
	t.Parallel()

	a := time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)
	b := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	got := Latest([]*time.Time{&a, nil, &b})
	if got == nil || !got.Equal(b) {
		t.Fatalf("want %v got %v", b, got)
	}
	if got := Latest(nil); got != nil {
		t.Fatalf("empty: want nil got %v", got)
	}
}

func TestWindow_Contains(t *testing.T) {
	t.Parallel()

	w, err := ParseWindow("2025-12-01", "2026-01-31")
	if err != nil {
		t.Fatalf("parse window: %v", err)
	}

	inside := time.Date(2025, 12, 1, 23, 59, 0, 0, time.UTC) // 端点含时分也算在内
	if !w.Contains(inside) {
		t.Fatalf("inclusive start violated")
	}
	end := time.Date(2026, 1, 31, 10, 0, 0, 0, time.UTC)
	if !w.Contains(end) {
		t.Fatalf("inclusive end violated")
	}
	before := time.Date(2025, 11, 20, 0, 0, 0, 0, time.UTC)
	if w.Contains(before) {
		t.Fatalf("outside start accepted")
	}
}

func TestParseWindow_Invalid(t *testing.T) {
	t.Parallel()

	if _, err := ParseWindow("notadate", "2026-01-31"); err == nil {
		t.Fatalf("expected error")
	}
	if _, err := ParseWindow("2026-02-01", "2026-01-31"); err == nil {
		t.Fatalf("expected reversed-bounds error")
	}
}
