package format

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrijs2005/medibook/internal/models"
)

func TestFormatDate(t *testing.T) {
	d := time.Date(2030, 6, 10, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "Monday, June 10, 2030", FormatDate(d))
	assert.Equal(t, "Mon 10", FormatShortWeekday(d))
}

func TestFormatTime(t *testing.T) {
	tests := map[string]string{
		"00:00": "12:00 AM",
		"09:30": "9:30 AM",
		"11:59": "11:59 AM",
		"12:00": "12:00 PM",
		"14:30": "2:30 PM",
		"17:00": "5:00 PM",
		"23:15": "11:15 PM",
		"noon":  "noon",
		"25:00": "25:00",
	}
	for in, want := range tests {
		assert.Equal(t, want, FormatTime(in), in)
	}
}

func TestRoles(t *testing.T) {
	doc := &models.User{UserType: models.RoleDoctor}
	pat := &models.User{UserType: models.RolePatient}

	assert.Equal(t, "Doctor", FormatUserRole(models.RoleDoctor))
	assert.Equal(t, "Patient", FormatUserRole(models.RolePatient))
	assert.True(t, IsDoctor(doc))
	assert.False(t, IsDoctor(pat))
	assert.True(t, IsPatient(pat))
	assert.False(t, IsPatient(nil))
	assert.False(t, IsDoctor(nil))
}

func TestFormatStatus(t *testing.T) {
	assert.Equal(t, "Pending", FormatStatus(models.StatusPending))
	assert.Equal(t, "Cancelled", FormatStatus(models.StatusCancelled))
	assert.Equal(t, "", FormatStatus(""))
}

func TestInitials(t *testing.T) {
	assert.Equal(t, "JD", Initials("John Doe"))
	assert.Equal(t, "DS", Initials("dr. sarah johnson"))
	assert.Equal(t, "M", Initials("Madonna"))
	assert.Equal(t, "AB", Initials(" Ann  Bell"))
	assert.Equal(t, "", Initials(""))
}

func TestGenerateAvatar(t *testing.T) {
	// 'J' is 74, 74 % 8 == 2
	url := GenerateAvatar("John Doe")
	assert.Equal(t, "https://ui-avatars.com/api/?name=JD&background=10B981&color=fff&size=150", url)
	assert.Equal(t, url, GenerateAvatar("John Doe"))

	// 'A' is 65, 65 % 8 == 1
	assert.Contains(t, GenerateAvatar("Alice"), "background=EF4444")
	assert.Contains(t, GenerateAvatar(""), "background=3B82F6")
}
