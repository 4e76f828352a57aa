package fpgakit

import "testing"

func TestSatisfiesConstraint(t *testing.T) {
	tests := []struct {
		name       string
		version    string
		constraint string
		want       bool
		wantErr    bool
	}{
		{
			name:       "within range",
			version:    "1.5.0",
			constraint: ">=1.2.0,<2.0.0",
			want:       true,
		},
		{
			name:       "below range",
			version:    "1.1.9",
			constraint: ">=1.2.0,<2.0.0",
			want:       false,
		},
		{
			name:       "upper bound excluded",
			version:    "2.0.0",
			constraint: ">=1.2.0,<2.0.0",
			want:       false,
		},
		{
			name:       "exact lower bound",
			version:    "0.0.9",
			constraint: ">=0.0.9",
			want:       true,
		},
		{
			name:       "wildcard patch",
			version:    "3.3.10",
			constraint: "3.3.x",
			want:       true,
		},
		{
			name:       "build metadata ignored",
			version:    "1.4.2+20240101",
			constraint: ">=1.4.0,<1.5.0",
			want:       true,
		},
		{
			name:       "malformed version fails closed",
			version:    "not-a-version",
			constraint: ">=1.0.0",
			want:       false,
		},
		{
			name:       "empty version fails closed",
			version:    "",
			constraint: ">=1.0.0",
			want:       false,
		},
		{
			name:       "malformed constraint is an error",
			version:    "1.0.0",
			constraint: ">>nope",
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := satisfiesConstraint(tt.version, tt.constraint)
			if (err != nil) != tt.wantErr {
				t.Fatalf("satisfiesConstraint(%q, %q) error = %v, wantErr %v",
					tt.version, tt.constraint, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("satisfiesConstraint(%q, %q) = %v, want %v",
					tt.version, tt.constraint, got, tt.want)
			}

			// Pure function: a second call must agree with the first.
			again, err2 := satisfiesConstraint(tt.version, tt.constraint)
			if again != got || (err2 != nil) != (err != nil) {
				t.Errorf("satisfiesConstraint(%q, %q) is not deterministic",
					tt.version, tt.constraint)
			}
		})
	}
}
