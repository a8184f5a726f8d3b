package catalog

// Kind classifies what went wrong with an operation so the handler layer
// can pick between not-found, redisplay-with-message, and failing loudly.
// raw store diagnostics never travel past this package
type Kind int

const (
	// KindNotFound means the requested row doesn't exist
	KindNotFound Kind = iota
	// KindValidation means submitted fields failed local constraints
	KindValidation
	// KindDuplicateSIN means the musician's SIN is already taken
	KindDuplicateSIN
	// KindInUse means a delete was blocked by dependent rows
	KindInUse
	// KindConcurrency means the row changed under an edit and still
	// exists. fatal: the caller must reload and resubmit
	KindConcurrency
	// KindRetryLimit means transient contention outlasted our retries
	KindRetryLimit
	// KindPersistence is any other store failure
	KindPersistence
)

const (
	msgNotFound      = "not found"
	msgDuplicateSIN  = "Unable to save changes. Remember, you cannot have duplicate SIN numbers."
	msgMusicianInUse = "Unable to save changes. You cannot delete a Musician who performed on any songs."
	msgRetryLimit    = "Unable to save changes after multiple attempts. Try again, and if the problem persists, see your system administrator."
	msgPersistence   = "Unable to save changes. Try again, and if the problem persists see your system administrator."
	msgConcurrency   = "the record was changed by someone else after you started editing"
	msgValidation    = "please correct the highlighted fields"
)

// Error is the operation-boundary error. Fields carries per-field messages
// when Kind is KindValidation
type Error struct {
	Kind    Kind
	Message string
	Fields  map[string]string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the Kind from an operation error, defaulting to
// KindPersistence for anything unclassified
func KindOf(err error) Kind {
	if cerr, ok := err.(*Error); ok {
		return cerr.Kind
	}
	return KindPersistence
}

// MessageOf extracts the user-facing message from an operation error
func MessageOf(err error) string {
	if cerr, ok := err.(*Error); ok {
		return cerr.Message
	}
	return msgPersistence
}

// FieldsOf extracts per-field validation messages, if any
func FieldsOf(err error) map[string]string {
	if cerr, ok := err.(*Error); ok {
		return cerr.Fields
	}
	return nil
}
