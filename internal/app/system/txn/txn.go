// internal/app/system/txn/txn.go

// Package txn runs multi-document writes inside MongoDB transactions,
// with a detected fallback for deployments that do not support them
// (standalone servers). Callers learn whether the transaction path was
// taken so they can compensate and surface inconsistency when it was not.
package txn

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
)

// Mongo server error codes that indicate transactions are unavailable.
const (
	codeIllegalOperation      = 20
	codeCommandNotSupported   = 51
	codeOperationNotSupported = 263
)

// IsNotSupported reports whether err indicates the deployment cannot run
// multi-document transactions (e.g. not a replica set member).
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}

	var cmdErr mongo.CommandError
	if ce, ok := err.(mongo.CommandError); ok {
		cmdErr = ce
	}
	switch cmdErr.Code {
	case codeIllegalOperation, codeCommandNotSupported, codeOperationNotSupported:
		return true
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "transaction") && strings.Contains(msg, "replica set"):
		return true
	case strings.Contains(msg, "session") && strings.Contains(msg, "not supported"):
		return true
	case strings.Contains(msg, "transaction") && strings.Contains(msg, "session"):
		return true
	case strings.Contains(msg, "illegal operation"):
		return true
	}
	return false
}

// Run executes fn inside a transaction when the deployment supports them.
// On unsupported deployments fn runs once without a transaction and Run
// returns inTxn=false, so the caller knows the writes were not atomic and
// must verify or compensate.
func Run(ctx context.Context, client *mongo.Client, fn func(ctx context.Context) error) (inTxn bool, err error) {
	sess, err := client.StartSession()
	if err != nil {
		if IsNotSupported(err) {
			return false, fn(ctx)
		}
		return false, err
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	if err != nil && IsNotSupported(err) {
		return false, fn(ctx)
	}
	return true, err
}
