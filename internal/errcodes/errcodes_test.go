package errcodes

import "testing"

func TestMessage(t *testing.T) {
	tests := []struct {
		name string
		code string
		want string
	}{
		{name: "known code", code: "invalid_arg", want: "Invalid argument value"},
		{name: "quota code", code: "api_call_limit_exceeded_for_ip", want: Common["api_call_limit_exceeded_for_ip"]},
		{name: "unknown code", code: "test", want: DefaultMessage},
		{name: "empty code", code: "", want: DefaultMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Message(tt.code); got != tt.want {
				t.Errorf("Message(%q) = %q, want %q", tt.code, got, tt.want)
			}
		})
	}
}

func TestKnown(t *testing.T) {
	if !Known("access_denied") {
		t.Error("Known(access_denied) = false, want true")
	}
	if Known("no_such_code") {
		t.Error("Known(no_such_code) = true, want false")
	}
}
