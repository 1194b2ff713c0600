package issue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestParseLabel(t *testing.T) {
	tests := []struct {
		name  string
		label string
		want  Period
		ok    bool
	}{
		{name: "compact", label: "Jan26", want: Period{2026, 1}, ok: true},
		{name: "lower case with space", label: "dec 2025", want: Period{2025, 12}, ok: true},
		{name: "dash separator", label: "Sep-25", want: Period{2025, 9}, ok: true},
		{name: "long month", label: "September 2027", want: Period{2027, 9}, ok: true},
		{name: "sept", label: "Sept25", want: Period{2025, 9}, ok: true},
		{name: "surrounding spaces", label: "  Feb26 ", want: Period{2026, 2}, ok: true},
		{name: "season", label: "Spring26", ok: false},
		{name: "no year", label: "January", ok: false},
		{name: "three digit year", label: "Jan202", ok: false},
		{name: "two letter month", label: "Ja26", ok: false},
		{name: "empty", label: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseLabel(tt.label)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestCompareLabels_CalendarOrder(t *testing.T) {
	assert.Negative(t, CompareLabels("Dec25", "Jan26"))
	assert.Negative(t, CompareLabels("Jan26", "Feb26"))
	assert.Negative(t, CompareLabels("Dec25", "Feb26"))
	assert.Positive(t, CompareLabels("Feb26", "Dec25"))
	assert.Zero(t, CompareLabels("Jan26", "Jan26"))
}

func TestCompareLabels_Unparsed(t *testing.T) {
	// parsed labels sort before unparsed ones
	assert.Negative(t, CompareLabels("Dec99", "Annual"))
	assert.Positive(t, CompareLabels("Annual", "Jan26"))

	// unparsed labels compare against each other, not themselves
	assert.Negative(t, CompareLabels("Autumn", "Summer"))
	assert.Positive(t, CompareLabels("Summer", "Autumn"))
	assert.Zero(t, CompareLabels("Summer", "Summer"))
}

func TestCompareLabels_SamePeriodDifferentSpelling(t *testing.T) {
	c := CompareLabels("Jan26", "January 2026")
	require.NotZero(t, c)
	assert.Equal(t, -c, CompareLabels("January 2026", "Jan26"))
}

func labelGen() *rapid.Generator[string] {
	return rapid.OneOf(
		rapid.Custom(func(t *rapid.T) string {
			m := rapid.SampledFrom([]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}).Draw(t, "month")
			sep := rapid.SampledFrom([]string{"", " ", "-"}).Draw(t, "sep")
			y := rapid.IntRange(20, 35).Draw(t, "year")
			return m + sep + itoa(y)
		}),
		rapid.StringMatching(`[A-Za-z ]{0,8}`),
	)
}

func itoa(n int) string {
	const digits = "0123456789"
	return string([]byte{digits[n/10], digits[n%10]})
}

func TestCompareLabels_TotalOrder(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := labelGen().Draw(t, "a")
		b := labelGen().Draw(t, "b")
		c := labelGen().Draw(t, "c")

		ab, ba := CompareLabels(a, b), CompareLabels(b, a)
		if sign(ab) != -sign(ba) {
			t.Fatalf("antisymmetry broken: cmp(%q,%q)=%d cmp(%q,%q)=%d", a, b, ab, b, a, ba)
		}
		if (ab == 0) != (a == b) {
			t.Fatalf("cmp(%q,%q)=0 only for equal labels, got %d", a, b, ab)
		}
		if ab <= 0 && CompareLabels(b, c) <= 0 && CompareLabels(a, c) > 0 {
			t.Fatalf("transitivity broken for %q <= %q <= %q", a, b, c)
		}
	})
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}
