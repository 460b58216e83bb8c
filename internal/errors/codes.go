package errors

type Code string

const (
	CodeUnknown          Code = "UNKNOWN"
	CodeInternal         Code = "INTERNAL_ERROR"
	CodeConfigValidation Code = "CONFIG_VALIDATION_ERROR"
	CodeConfigReadError  Code = "CONFIG_READ_ERROR"
	CodeConfigParseError Code = "CONFIG_PARSE_ERROR"

	// CodeUpstreamQuery covers failures talking to the policy API and to
	// the notification channels (GitHub, Slack, the social API).
	CodeUpstreamQuery Code = "UPSTREAM_QUERY_ERROR"

	// CodeStorage covers baseline blob reads/writes and local staging I/O.
	CodeStorage Code = "STORAGE_ERROR"

	// CodeSecretAccess covers credential resolution failures.
	CodeSecretAccess Code = "SECRET_ACCESS_ERROR"

	// CodePrecondition marks secret-store precondition failures, e.g. a
	// disabled or destroyed secret version. Always fatal.
	CodePrecondition Code = "PRECONDITION_ERROR"
)

func (c Code) String() string {
	return string(c)
}
