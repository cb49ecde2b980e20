package checksum

import "testing"

func TestSum(t *testing.T) {
	// sha256 of the empty input.
	const empty = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	if got := Sum(nil); got != empty {
		t.Errorf("Sum(nil) = %s, want %s", got, empty)
	}
	if Sum([]byte("a\n")) == Sum([]byte("a")) {
		t.Error("trailing newline should change the digest")
	}
}
