package gaps

import "github.com/google/uuid"

func newTransitionID() string { return uuid.NewString() }
