package recipes

import "errors"

// ErrAlreadySeeded signals that SeedLocalFromRemote found rows in the local store and
// changed nothing. It is a no-op signal rather than a failure.
var ErrAlreadySeeded = errors.New("local store already seeded")
