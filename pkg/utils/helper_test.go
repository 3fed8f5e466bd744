package utils

import "testing"

func TestGenerateOTP(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		otp, err := GenerateOTP()
		if err != nil {
			t.Fatalf("GenerateOTP: %v", err)
		}
		if len(otp) != 6 {
			t.Fatalf("expected 6 digits, got %q", otp)
		}
		for _, r := range otp {
			if r < '0' || r > '9' {
				t.Fatalf("non-digit character in OTP %q", otp)
			}
		}
		if otp[0] == '0' {
			t.Fatalf("OTP %q has a leading zero, range must be 100000-999999", otp)
		}
		seen[otp] = struct{}{}
	}
	if len(seen) < 2 {
		t.Error("100 draws produced a single value, generator looks broken")
	}
}

func TestGenerateRandomString(t *testing.T) {
	s, err := GenerateRandomString(16)
	if err != nil {
		t.Fatalf("GenerateRandomString: %v", err)
	}
	if len(s) != 32 {
		t.Errorf("expected 32 hex chars for 16 bytes, got %d", len(s))
	}
}
