// Package format turns raw warehouse values into display strings.
package format

import (
	"strconv"
	"strings"
	"time"
)

// Missing is rendered for absent values (pre-tracking eras, data gaps).
const Missing = "-"

// DateCorrection is added to every stored game date before display. The warehouse
// stores game dates one day early; verify against the source before removing.
const DateCorrection = 24 * time.Hour

func Percent(v *float64, digits int) string {
	if v == nil {
		return Missing
	}
	return strconv.FormatFloat(*v*100, 'f', clampDigits(digits), 64) + "%"
}

func Fixed(v *float64, digits int) string {
	if v == nil {
		return Missing
	}
	return strconv.FormatFloat(*v, 'f', clampDigits(digits), 64)
}

func Int(v *int) string {
	if v == nil {
		return Missing
	}
	return strconv.Itoa(*v)
}

// Signed renders plus-minus style values with an explicit sign.
func Signed(v *int) string {
	if v == nil {
		return Missing
	}
	if *v > 0 {
		return "+" + strconv.Itoa(*v)
	}
	return strconv.Itoa(*v)
}

func Record(wins, losses *int) string {
	if wins == nil || losses == nil {
		return Missing
	}
	return strconv.Itoa(*wins) + "-" + strconv.Itoa(*losses)
}

func ShotLine(made, attempts *int) string {
	if made == nil || attempts == nil {
		return Missing
	}
	return strconv.Itoa(*made) + "/" + strconv.Itoa(*attempts)
}

// Minutes normalizes box score minutes. The feed mixes "34:12", "34.000000:12" and "34".
func Minutes(raw *string) string {
	if raw == nil {
		return Missing
	}
	value := strings.TrimSpace(*raw)
	if value == "" {
		return Missing
	}

	mm, ss, hasSeconds := strings.Cut(value, ":")
	whole, err := strconv.ParseFloat(mm, 64)
	if err != nil {
		return value
	}
	out := strconv.Itoa(int(whole))
	if !hasSeconds {
		return out
	}
	sec, err := strconv.Atoi(strings.TrimSpace(ss))
	if err != nil || sec < 0 {
		return out
	}
	if sec < 10 {
		return out + ":0" + strconv.Itoa(sec)
	}
	return out + ":" + strconv.Itoa(sec)
}

// ParseGameDate reads the calendar date prefix of an ISO timestamp and applies DateCorrection.
func ParseGameDate(raw *string) (time.Time, bool) {
	if raw == nil {
		return time.Time{}, false
	}
	value := strings.TrimSpace(*raw)
	if len(value) < len("2006-01-02") {
		return time.Time{}, false
	}
	day, err := time.Parse("2006-01-02", value[:10])
	if err != nil {
		return time.Time{}, false
	}
	return day.Add(DateCorrection), true
}

func GameDate(raw *string) string {
	day, ok := ParseGameDate(raw)
	if !ok {
		return Missing
	}
	return day.Format("Mon, Jan 2")
}

// Timestamp renders backend generation times in UTC.
func Timestamp(t *time.Time) string {
	if t == nil || t.IsZero() {
		return Missing
	}
	return t.UTC().Format("Jan 2, 15:04 MST")
}

func clampDigits(d int) int {
	if d < 0 {
		return 0
	}
	if d > 6 {
		return 6
	}
	return d
}
