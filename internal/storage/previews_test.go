/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * Licensed under the Apache License, Version 2.0.
 */

package storage

import (
	"context"
	"os"
	"testing"
	"time"
)

func TestPreviewsPutGetAndEvict(t *testing.T) {
	root := t.TempDir()
	db, err := InitOrOpenIndex(root)
	if err != nil {
		t.Fatalf("InitOrOpenIndex: %v", err)
	}
	_ = db.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Set a tiny cap to force eviction quickly
	os.Setenv("GSS_PREVIEWS_MAX_BYTES", "64")
	defer os.Unsetenv("GSS_PREVIEWS_MAX_BYTES")

	// Insert 3 previews of 40 bytes each
	blobA := make([]byte, 40)
	blobB := make([]byte, 40)
	blobC := make([]byte, 40)
	if err := PutPreview(ctx, root, 1, 100, 100, blobA); err != nil {
		t.Fatalf("put A: %v", err)
	}
	time.Sleep(10 * time.Millisecond) // different access times
	if err := PutPreview(ctx, root, 1, 200, 200, blobB); err != nil {
		t.Fatalf("put B: %v", err)
	}
	time.Sleep(10 * time.Millisecond)
	if err := PutPreview(ctx, root, 1, 300, 300, blobC); err != nil {
		t.Fatalf("put C: %v", err)
	}

	// Cap is 64 bytes; after inserts total 120 -> eviction should have occurred
	total, err := TotalPreviewBytes(ctx, root)
	if err != nil {
		t.Fatalf("total: %v", err)
	}
	if total > 64 {
		t.Fatalf("expected eviction to <=64 bytes, got %d", total)
	}

	// The most recently inserted variant must survive
	got, err := GetPreview(ctx, root, 1, 300, 300)
	if err != nil {
		t.Fatalf("get C: %v", err)
	}
	if got == nil {
		t.Fatalf("expected newest preview to survive eviction")
	}
}

func TestGetOrCreatePreviewGeneratesOnce(t *testing.T) {
	root := t.TempDir()
	db, err := InitOrOpenIndex(root)
	if err != nil {
		t.Fatalf("InitOrOpenIndex: %v", err)
	}
	_ = db.Close()
	ctx := context.Background()

	calls := 0
	gen := func(context.Context) ([]byte, error) {
		calls++
		return []byte{1, 2, 3}, nil
	}
	a, err := GetOrCreatePreview(ctx, root, 7, 64, 64, gen)
	if err != nil || len(a) != 3 {
		t.Fatalf("first GetOrCreatePreview: %v (%d bytes)", err, len(a))
	}
	b, err := GetOrCreatePreview(ctx, root, 7, 64, 64, gen)
	if err != nil || len(b) != 3 {
		t.Fatalf("second GetOrCreatePreview: %v (%d bytes)", err, len(b))
	}
	if calls != 1 {
		t.Fatalf("expected generator to run once, ran %d times", calls)
	}
}

func TestGetPreviewMissingIsNil(t *testing.T) {
	root := t.TempDir()
	db, err := InitOrOpenIndex(root)
	if err != nil {
		t.Fatalf("InitOrOpenIndex: %v", err)
	}
	_ = db.Close()
	got, err := GetPreview(context.Background(), root, 42, 10, 10)
	if err != nil {
		t.Fatalf("GetPreview: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for missing preview")
	}
}
