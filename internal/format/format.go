// Package format renders dates, times, roles, statuses and avatars for
// display.
package format

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/dmitrijs2005/medibook/internal/models"
)

// FormatDate renders t in the en-US long form, e.g. "Monday, June 10, 2030".
func FormatDate(t time.Time) string {
	return t.Format("Monday, January 2, 2006")
}

// FormatShortWeekday renders the calendar column header, e.g. "Mon 10".
func FormatShortWeekday(t time.Time) string {
	return t.Format("Mon 2")
}

// FormatTime converts "HH:MM" to "h:mm AM/PM". Input that is not a valid
// 24-hour time is returned unchanged.
func FormatTime(hhmm string) string {
	hours, minutes, ok := strings.Cut(hhmm, ":")
	if !ok {
		return hhmm
	}
	h, err := strconv.Atoi(hours)
	if err != nil || h < 0 || h > 23 {
		return hhmm
	}
	ampm := "AM"
	if h >= 12 {
		ampm = "PM"
	}
	display := h % 12
	if display == 0 {
		display = 12
	}
	return fmt.Sprintf("%d:%s %s", display, minutes, ampm)
}

// FormatUserRole returns the display label of a role.
func FormatUserRole(r models.Role) string {
	if r == models.RoleDoctor {
		return "Doctor"
	}
	return "Patient"
}

func IsDoctor(u *models.User) bool {
	return u != nil && u.UserType == models.RoleDoctor
}

func IsPatient(u *models.User) bool {
	return u != nil && u.UserType == models.RolePatient
}

// FormatStatus capitalises a status for display.
func FormatStatus(s models.AppointmentStatus) string {
	r, size := utf8.DecodeRuneInString(string(s))
	if r == utf8.RuneError {
		return string(s)
	}
	return string(unicode.ToUpper(r)) + string(s)[size:]
}

var avatarColors = []string{
	"3B82F6", "EF4444", "10B981", "F59E0B",
	"8B5CF6", "06B6D4", "84CC16", "EC4899",
}

// Initials returns the upper-cased first letters of the first two
// space-separated words of name.
func Initials(name string) string {
	var b strings.Builder
	n := 0
	for _, word := range strings.Split(name, " ") {
		if n == 2 {
			break
		}
		r, _ := utf8.DecodeRuneInString(word)
		if r == utf8.RuneError {
			continue
		}
		b.WriteString(strings.ToUpper(string(r)))
		n++
	}
	return b.String()
}

// GenerateAvatar builds a deterministic ui-avatars.com URL for name. The
// background colour is chosen by the first code point of name.
func GenerateAvatar(name string) string {
	color := avatarColors[0]
	if r, _ := utf8.DecodeRuneInString(name); r != utf8.RuneError {
		color = avatarColors[int(r)%len(avatarColors)]
	}
	return "https://ui-avatars.com/api/?name=" + url.QueryEscape(Initials(name)) +
		"&background=" + color + "&color=fff&size=150"
}
