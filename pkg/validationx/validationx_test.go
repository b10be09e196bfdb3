package validationx

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestPasswordFormatRule(t *testing.T) {
	tests := []struct {
		name     string
		password string
		valid    bool
	}{
		{"valid password with all requirements", "Password1!", true},
		{"valid password with @ symbol", "MyPass123@", true},
		{"valid long password", "ThisIsAVeryLongPassword123!", true},
		{"exactly 8 characters - valid", "Pass123!", true},
		{"contains hyphen", "Pass-word1!", true},
		{"contains underscore", "Pass_word1!", true},
		{"too short - 7 characters", "Pass1!", false},
		{"empty string", "", false},
		{"missing lowercase letter", "PASSWORD1!", false},
		{"missing uppercase letter", "password1!", false},
		{"missing digit", "Password!", false},
		{"missing special character", "Password123", false},
		{"contains space", "Pass word1!", false},
		{"contains unicode letter", "Pássword1!", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := PasswordFormatRule{}.Validate(tt.password)
			if (err == nil) != tt.valid {
				t.Errorf("PasswordFormatRule(%q) = %v, expected valid: %v", tt.password, err == nil, tt.valid)
			}
		})
	}
}

func TestIsPersonName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		personName string
		valid      bool
	}{
		{"valid name", "John Doe", true},
		{"empty", "", true}, // Let Required handle emptiness
		{"single name", "Alice", true},
		{"name with hyphen", "Mary-Jane", true},
		{"name with apostrophe", "O'Connor", true},
		{"name with period", "Dr. Smith", true},
		{"name with accented chars", "José Ángel", true},
		{"name with hangul", "김철수", true},
		{"name with comma", "Smith, John", false},
		{"name with underscore", "John_Doe", false},
		{"name with at sign", "Jane@Doe", false},
		{"name with digits", "John123", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := IsPersonName.Validate(tt.personName)
			if (err == nil) != tt.valid {
				t.Errorf("IsPersonName(%q) = %v, expected valid: %v", tt.personName, err == nil, tt.valid)
			}
		})
	}
}

func TestIsVerificationCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		code  string
		valid bool
	}{
		{"valid code", "123456", true},
		{"valid code with leading zeros", "000042", true},
		{"empty", "", true}, // Let Required handle emptiness
		{"too short", "12345", false},
		{"too long", "1234567", false},
		{"contains letter", "12345a", false},
		{"contains space", "123 45", false},
		{"contains hyphen", "123-45", false},
		{"negative sign", "-12345", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := IsVerificationCode.Validate(tt.code)
			if (err == nil) != tt.valid {
				t.Errorf("IsVerificationCode(%q) = %v, expected valid: %v", tt.code, err == nil, tt.valid)
			}
		})
	}
}

func TestRequiredUUID(t *testing.T) {
	tests := []struct {
		name          string
		uuid          any
		expectedError bool
	}{
		{
			name:          "valid string UUID",
			uuid:          "123e4567-e89b-12d3-a456-426614174000",
			expectedError: false,
		},
		{
			name:          "valid UUID object",
			uuid:          uuid.MustParse("123e4567-e89b-12d3-a456-426614174001"),
			expectedError: false,
		},
		{
			name:          "empty string UUID",
			uuid:          "",
			expectedError: true,
		},
		{
			name:          "empty UUID object",
			uuid:          uuid.UUID{},
			expectedError: true,
		},
		{
			name:          "nil",
			uuid:          nil,
			expectedError: true,
		},
		{
			name:          "uuid.Nil",
			uuid:          uuid.Nil,
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Required.Validate(tt.uuid)
			if (err == nil) == tt.expectedError {
				t.Errorf("Required.Validate(%v) = %v, expected error: %v", tt.uuid, err, tt.expectedError)
			}
		})
	}
}

func TestRequired(t *testing.T) {
	s1 := "123"
	s2 := ""
	var time1 time.Time
	tests := []struct {
		tag   string
		value any
		err   string
	}{
		{"t1", 123, ""},
		{"t2", "", "cannot be blank"},
		{"t3", &s1, ""},
		{"t4", &s2, "cannot be blank"},
		{"t5", nil, "cannot be blank"},
		{"t6", time1, "cannot be blank"},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			r := Required
			err := r.Validate(tt.value)
			if err == nil {
				assert.Empty(t, tt.err, tt.tag)
			} else {
				assert.Equal(t, tt.err, err.Error(), tt.tag)
			}
		})
	}
}
