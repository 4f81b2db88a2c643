// Package check has small assertion helpers for test case functions. Each
// helper logs a failed check at error level through the case logger carried by
// ctx, with the caller's location and the optional reason, and reports whether
// the check held so the caller decides whether to return:
//
//	if !check.Eq(ctx, got, want, "decoded length") {
//		return -1
//	}
package check

import (
	"cmp"
	"context"
	"fmt"
	"path/filepath"
	"reflect"
	"runtime"

	"go.uber.org/zap"

	"utest/pkg/logging"
)

func fail(ctx context.Context, reason string, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if _, file, line, ok := runtime.Caller(2); ok {
		msg += fmt.Sprintf(" fails in %s:%d", filepath.Base(file), line)
	}
	if reason != "" {
		msg += " (" + reason + ")"
	}
	logging.FromContext(ctx).WithOptions(zap.AddCallerSkip(2)).Error(msg)
}

// True checks that cond holds.
func True(ctx context.Context, cond bool, reason string) bool {
	if !cond {
		fail(ctx, reason, "check true")
	}
	return cond
}

// NonZero checks that v is not the zero value of its type.
func NonZero[T comparable](ctx context.Context, v T, reason string) bool {
	var zero T
	if v == zero {
		fail(ctx, reason, "check %v != 0", v)
		return false
	}
	return true
}

// NotNil checks that v is neither nil nor a nil pointer, map, slice, channel,
// func or interface.
func NotNil(ctx context.Context, v any, reason string) bool {
	if isNil(v) {
		fail(ctx, reason, "check not nil")
		return false
	}
	return true
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

// Success checks that err is nil.
func Success(ctx context.Context, err error, reason string) bool {
	if err != nil {
		fail(ctx, reason, "check success: %v", err)
		return false
	}
	return true
}

// Eq checks a == b.
func Eq[T comparable](ctx context.Context, a, b T, reason string) bool {
	if a != b {
		fail(ctx, reason, "check %v == %v", a, b)
		return false
	}
	return true
}

// Neq checks a != b.
func Neq[T comparable](ctx context.Context, a, b T, reason string) bool {
	if a == b {
		fail(ctx, reason, "check %v != %v", a, b)
		return false
	}
	return true
}

// Lt checks a < b.
func Lt[T cmp.Ordered](ctx context.Context, a, b T, reason string) bool {
	if !(a < b) {
		fail(ctx, reason, "check %v < %v", a, b)
		return false
	}
	return true
}

// Lte checks a <= b.
func Lte[T cmp.Ordered](ctx context.Context, a, b T, reason string) bool {
	if !(a <= b) {
		fail(ctx, reason, "check %v <= %v", a, b)
		return false
	}
	return true
}

// Gt checks a > b.
func Gt[T cmp.Ordered](ctx context.Context, a, b T, reason string) bool {
	if !(a > b) {
		fail(ctx, reason, "check %v > %v", a, b)
		return false
	}
	return true
}

// Gte checks a >= b.
func Gte[T cmp.Ordered](ctx context.Context, a, b T, reason string) bool {
	if !(a >= b) {
		fail(ctx, reason, "check %v >= %v", a, b)
		return false
	}
	return true
}
