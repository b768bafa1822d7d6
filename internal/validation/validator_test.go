package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateStruct_Forms(t *testing.T) {
	tests := []struct {
		name string
		form interface{}
		want string
	}{
		{"login ok", LoginForm{Email: "a@example.com", Password: "x"}, ""},
		{"login missing", LoginForm{}, "email is required; password is required"},
		{"login bad email", LoginForm{Email: "nope", Password: "x"}, "email must be a valid email address"},
		{"visit missing", VisitForm{DoctorName: "Dr. Otieno"}, "location is required; visit date is required"},
		{"visit ok", VisitForm{DoctorName: "Dr. Otieno", Location: "Kisumu", VisitDate: "2025-03-12 09:30:00"}, ""},
		{"visit iso date", VisitForm{DoctorName: "Dr. Otieno", Location: "Kisumu", VisitDate: "2025-03-12T09:30"}, "visit date must be a date like 2006-01-02 15:04:05"},
		{"negative price", ProductForm{Name: "Gloves", Category: "PPE", Price: -1}, "price must be at least 0"},
		{"zero price ok", ProductForm{Name: "Gloves", Category: "PPE"}, ""},
		{"short password", UserForm{Username: "kip", Email: "k@example.com", Password: "12345"}, "password must be at least 6 characters"},
		{"bad role", UserForm{Username: "kip", Email: "k@example.com", Password: "123456", Role: "root"}, "role must be one of: admin marketer doctor user"},
		{"password change", PasswordForm{NewPassword: "abc"}, "new password must be at least 6 characters"},
		{"report", ReportForm{Title: "Q1", ReportText: "ok"}, "visit id is required"},
		{"group", GroupForm{}, "name is required"},
		{"membership empty", MembershipForm{}, "user ids is required"},
		{"membership bad id", MembershipForm{UserIDs: []int{3, 0}}, "user ids[1] must be greater than 0"},
		{"profile ok", ProfileForm{}, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateStruct(tc.form)
			if tc.want == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tc.want, Message(err))
		})
	}
}

func TestMessage_PlainError(t *testing.T) {
	assert.Equal(t, "boom", Message(errors.New("boom")))
}
