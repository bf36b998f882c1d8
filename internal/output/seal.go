package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"filippo.io/age"
)

// SealSuffix is appended to the name of every sealed file.
const SealSuffix = ".age"

// ValidateRecipient checks that key is an age X25519 public key.
func ValidateRecipient(key string) error {
	if !strings.HasPrefix(key, "age1") {
		return fmt.Errorf("age public key must start with 'age1'")
	}
	if _, err := age.ParseX25519Recipient(key); err != nil {
		return fmt.Errorf("invalid age public key: %w", err)
	}
	return nil
}

// sealWriter wraps dst so that everything written is encrypted to the
// recipient. Close finishes the age stream but leaves dst open.
func sealWriter(dst io.Writer, recipient string) (io.WriteCloser, error) {
	r, err := age.ParseX25519Recipient(recipient)
	if err != nil {
		return nil, fmt.Errorf("failed to parse age public key: %w", err)
	}
	w, err := age.Encrypt(dst, r)
	if err != nil {
		return nil, fmt.Errorf("failed to create age encryption writer: %w", err)
	}
	return w, nil
}

// sealFile encrypts src into dst.
func sealFile(src, dst, recipient string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create output file %s: %w", dst, err)
	}
	w, err := sealWriter(out, recipient)
	if err != nil {
		out.Close()
		return err
	}
	if _, err := io.Copy(w, in); err != nil {
		out.Close()
		return fmt.Errorf("failed to encrypt %s: %w", src, err)
	}
	if err := w.Close(); err != nil {
		out.Close()
		return fmt.Errorf("failed to finalize encryption: %w", err)
	}
	return out.Close()
}
