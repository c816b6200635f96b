package response

import "errors"

type Response struct {
	ResponseError `json:"error,omitzero"`
}

type ResponseError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

//Error Codes
type ErrCode string

var (
	FAILED_REQUEST     ErrCode = "REQUEST_FAILED"
	BAD_REQUEST        ErrCode = "FAILED_TO_DECODE"
	NOT_FOUND          ErrCode = "NOT_FOUND"
	SPOC_NOT_FOUND     ErrCode = "SPOC_NOT_FOUND"
	CLIENT_NOT_FOUND   ErrCode = "CLIENT_NOT_FOUND"
	BOOKING_NOT_FOUND  ErrCode = "BOOKING_NOT_FOUND"
	LOCKED             ErrCode = "LOCKED"
	ALREADY_CANCELLED  ErrCode = "ALREADY_CANCELLED"
	SLOT_NOT_AVAILABLE ErrCode = "SLOT_NOT_AVAILABLE"
	SLOT_SPOC_MISMATCH ErrCode = "SLOT_SPOC_MISMATCH"
)

var (
	ErrBadRequest       = errors.New("bad request")
	ErrNotFound         = errors.New("resource not found")
	ErrSpocNotFound     = errors.New("spoc not found")
	ErrClientNotFound   = errors.New("client not found")
	ErrBookingNotFound  = errors.New("booking not found")
	ErrLocked           = errors.New("resource is locked")
	ErrBookingCancelled = errors.New("booking already cancelled")
	ErrSlotNotAvailable = errors.New("slot is not available")
	ErrSlotSpocMismatch = errors.New("slot does not belong to this spoc")
)

func Error(code, msg string) Response {
	return Response{
		ResponseError: ResponseError{
			Code:    code,
			Message: msg,
		},
	}
}
