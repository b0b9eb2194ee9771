package eventname

import "testing"

func strPtr(s string) *string { return &s }

func TestParse(t *testing.T) {
	cases := []struct {
		name    string
		title   string
		client  *string
		service string
		extra   string
	}{
		{"client and service", "Maria Rossi - Hair Cut", strPtr("Maria Rossi"), "Hair Cut", ""},
		{"service only", "Lunch Break", nil, "Lunch Break", ""},
		{"service only trimmed", "  Closed  ", nil, "Closed", ""},
		{"three parts", "Luca Bianchi - Beard Shaping - +39 123 4567", strPtr("Luca Bianchi"), "Beard Shaping", "+39 123 4567"},
		{"extra keeps later separators", "A - B - C - D", strPtr("A"), "B", "C - D"},
		{"trims segments", "  Ana   -   Hair Cut  ", strPtr("Ana"), "Hair Cut", ""},
		{"empty client segment", " - Hair Cut", nil, "Hair Cut", ""},
		{"empty service segment", "Ana - ", strPtr("Ana"), "", ""},
		{"hyphen without spaces", "Jean-Luc", nil, "Jean-Luc", ""},
		{"empty title", "", nil, "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Parse(tc.title)

			switch {
			case tc.client == nil && got.ClientName != nil:
				t.Fatalf("expected no client, got %q", *got.ClientName)
			case tc.client != nil && got.ClientName == nil:
				t.Fatalf("expected client %q, got none", *tc.client)
			case tc.client != nil && *got.ClientName != *tc.client:
				t.Fatalf("client = %q, want %q", *got.ClientName, *tc.client)
			}

			if got.Service != tc.service {
				t.Fatalf("service = %q, want %q", got.Service, tc.service)
			}
			if got.Extra != tc.extra {
				t.Fatalf("extra = %q, want %q", got.Extra, tc.extra)
			}
		})
	}
}

func TestPhoneHint(t *testing.T) {
	if hint := Parse("Ana - Hair Cut - +39 123 4567").PhoneHint(); hint != "+391234567" {
		t.Fatalf("unexpected hint %q", hint)
	}
	if hint := Parse("Ana - Hair Cut - call before").PhoneHint(); hint != "" {
		t.Fatalf("free text must not become a phone hint, got %q", hint)
	}
	if hint := Parse("Ana - Hair Cut").PhoneHint(); hint != "" {
		t.Fatalf("expected empty hint, got %q", hint)
	}
}
