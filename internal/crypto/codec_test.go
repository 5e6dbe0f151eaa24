package crypto

import (
	"errors"
	"testing"

	"datadocs/internal/domain"
)

func TestCodecRoundTrip(t *testing.T) {
	codec, err := NewCodec("test-secret")
	if err != nil {
		t.Fatalf("NewCodec() error = %v", err)
	}

	tests := []struct {
		name      string
		plaintext string
	}{
		{name: "simple", plaintext: "hello world"},
		{name: "empty", plaintext: ""},
		{name: "unicode", plaintext: "portée du projet — traduction à jour"},
		{name: "redaction markup", plaintext: "The ~~budget is $5M~~[FinancialDisclosure] this year"},
		{name: "multiline markdown", plaintext: "## Heading\n\n| a | b |\n|---|---|\n| 1 | 2 |\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blob, err := codec.Encrypt(tt.plaintext)
			if err != nil {
				t.Fatalf("Encrypt() error = %v", err)
			}

			got, err := codec.Decrypt(blob)
			if err != nil {
				t.Fatalf("Decrypt() error = %v", err)
			}
			if got != tt.plaintext {
				t.Errorf("Decrypt() = %q, want %q", got, tt.plaintext)
			}
		})
	}
}

func TestCodecEncryptionIsRandomized(t *testing.T) {
	codec, err := NewCodec("test-secret")
	if err != nil {
		t.Fatalf("NewCodec() error = %v", err)
	}

	a, err := codec.Encrypt("same content")
	if err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}
	b, err := codec.Encrypt("same content")
	if err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}

	if string(a) == string(b) {
		t.Error("two encryptions of identical content produced identical blobs")
	}
}

func TestCodecRejectsEmptySecret(t *testing.T) {
	if _, err := NewCodec(""); err == nil {
		t.Error("NewCodec(\"\") expected error, got nil")
	}
}

func TestCodecDecryptFailures(t *testing.T) {
	codec, err := NewCodec("test-secret")
	if err != nil {
		t.Fatalf("NewCodec() error = %v", err)
	}

	blob, err := codec.Encrypt("content")
	if err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}

	tampered := make([]byte, len(blob))
	copy(tampered, blob)
	tampered[len(tampered)-1] ^= 0xff

	otherCodec, err := NewCodec("rotated-secret")
	if err != nil {
		t.Fatalf("NewCodec() error = %v", err)
	}

	tests := []struct {
		name  string
		codec *Codec
		blob  []byte
	}{
		{name: "truncated blob", codec: codec, blob: blob[:8]},
		{name: "empty blob", codec: codec, blob: nil},
		{name: "tampered ciphertext", codec: codec, blob: tampered},
		{name: "wrong key", codec: otherCodec, blob: blob},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.codec.Decrypt(tt.blob)
			if err == nil {
				t.Fatal("Decrypt() expected error, got nil")
			}
			if !errors.Is(err, domain.ErrDecode) {
				t.Errorf("Decrypt() error = %v, want domain.ErrDecode", err)
			}
		})
	}
}
