package memory

import (
	"context"
	"errors"
	"testing"
)

func TestGetMissing(t *testing.T) {
	s := New()
	v, ok, err := s.Get(context.Background(), "nope")
	if err != nil || ok || v != nil {
		t.Fatalf("expected miss, got v=%v ok=%v err=%v", v, ok, err)
	}
}

func TestSetGetOverwrite(t *testing.T) {
	ctx := context.Background()
	s := New()

	if err := s.Set(ctx, "k", []byte("one")); err != nil {
		t.Fatal(err)
	}
	v, ok, err := s.Get(ctx, "k")
	if err != nil || !ok || string(v) != "one" {
		t.Fatalf("got v=%q ok=%v err=%v", v, ok, err)
	}

	if err := s.Set(ctx, "k", []byte("two")); err != nil {
		t.Fatal(err)
	}
	v, _, _ = s.Get(ctx, "k")
	if string(v) != "two" {
		t.Fatalf("expected overwrite, got %q", v)
	}
	if s.Len() != 1 {
		t.Fatalf("expected 1 key, got %d", s.Len())
	}
}

func TestValuesAreCopied(t *testing.T) {
	ctx := context.Background()
	s := New()

	in := []byte("abc")
	_ = s.Set(ctx, "k", in)
	in[0] = 'x'

	v, _, _ := s.Get(ctx, "k")
	if string(v) != "abc" {
		t.Fatalf("stored value aliased the caller's buffer: %q", v)
	}

	v[0] = 'y'
	v2, _, _ := s.Get(ctx, "k")
	if string(v2) != "abc" {
		t.Fatalf("returned value aliased the stored buffer: %q", v2)
	}
}

func TestFailureInjection(t *testing.T) {
	ctx := context.Background()
	s := New()
	boom := errors.New("boom")

	s.FailWrites(boom)
	if err := s.Set(ctx, "k", []byte("v")); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	s.FailWrites(nil)
	if err := s.Set(ctx, "k", []byte("v")); err != nil {
		t.Fatal(err)
	}

	s.FailReads(boom)
	if _, _, err := s.Get(ctx, "k"); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	s.FailReads(nil)
	if _, ok, err := s.Get(ctx, "k"); err != nil || !ok {
		t.Fatalf("expected recovery, got ok=%v err=%v", ok, err)
	}
}
