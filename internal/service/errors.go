package service

import "errors"

// Sentinel errors returned by the service layer. Handlers map these onto
// HTTP statuses; ordering guarantees (not-found checked before forbidden)
// are enforced here, not in the handlers.
var (
	// ErrNotFound indicates the requested resource does not exist
	ErrNotFound = errors.New("resource not found")

	// ErrForbidden indicates the requester is not the owner of the resource
	// and does not share its company
	ErrForbidden = errors.New("not authorized to access this resource")

	// ErrConflict indicates a uniqueness violation (duplicate name, email,
	// or a concurrently assigned document number)
	ErrConflict = errors.New("resource already exists")

	// ErrDeliveryNoteSigned indicates a mutation was attempted on a signed
	// note. Signed notes are immutable.
	ErrDeliveryNoteSigned = errors.New("delivery note is signed and cannot be modified")

	// ErrAlreadySigned indicates a second signing attempt on a signed note
	ErrAlreadySigned = errors.New("delivery note is already signed")

	// ErrSignatureRequired indicates the signing request carried no
	// signature file
	ErrSignatureRequired = errors.New("signature file is required")

	// ErrInvalidStatus indicates a status value outside the lifecycle, or a
	// transition the generic update path may not perform
	ErrInvalidStatus = errors.New("invalid delivery note status")

	// ErrInvalidCredentials indicates a failed login
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrExternalService indicates the blob store rejected or failed an
	// upload
	ErrExternalService = errors.New("external storage service failed")
)
