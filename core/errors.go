package core

import "strconv"

// ErrorCode int
type ErrorCode int

const (
	// ErrUnknown unknown
	ErrUnknown ErrorCode = 100000
	// ErrOperationForbidden caller is not the permitted principal
	ErrOperationForbidden ErrorCode = 100001

	// ErrMarketNotFound no market
	ErrMarketNotFound ErrorCode = 100100
	// ErrInvalidAmount invalid amount
	ErrInvalidAmount ErrorCode = 100101
	// ErrInvalidTimestamp timestamp precedes the last recorded update
	ErrInvalidTimestamp ErrorCode = 100102
	// ErrContractNotRegistered collaborator handle not registered yet
	ErrContractNotRegistered ErrorCode = 100103
	// ErrContractAlreadyRegistered collaborator handle may be set only once
	ErrContractAlreadyRegistered ErrorCode = 100104
	// ErrPendingRequestNotFound no matching pending registration request
	ErrPendingRequestNotFound ErrorCode = 100105
	// ErrStateNotFound no state record
	ErrStateNotFound ErrorCode = 100106
)

func (e ErrorCode) String() string {
	return strconv.Itoa(int(e))
}

func (e ErrorCode) Error() string {
	return e.String()
}
