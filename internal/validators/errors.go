package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrEmptyRegistry     = errors.New("registry has no reference groups")
	ErrEmptyGroup        = errors.New("reference group has no descriptors")
	ErrDuplicateGroup    = errors.New("reference group is declared twice")
	ErrDuplicateAlias    = errors.New("duplicate alias within reference group")
	ErrReservedAlias     = errors.New("alias is reserved for the identity table")
	ErrInvalidIdentifier = errors.New("invalid SQL identifier")
	ErrInvalidPurpose    = errors.New("invalid reference purpose")
	ErrUnknownTable      = errors.New("referenced table does not exist")
	ErrUnknownColumn     = errors.New("referenced column does not exist")
	ErrSchemaCheckFailed = errors.New("failed to inspect schema")
	ErrNoSchemaChecker   = errors.New("schema validation requested without a schema checker")
)
