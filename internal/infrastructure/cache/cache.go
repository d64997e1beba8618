package cache

import (
	appinsurance "github.com/xear/backend/internal/application/insurance"
)

// Ensure both implementations satisfy the scheme cache contract
var (
	_ appinsurance.SchemeCache = (*InMemorySchemeCache)(nil)
	_ appinsurance.SchemeCache = (*RedisSchemeCache)(nil)
)
