//go:build tools

package tools

// Mocks in pkg/iface/mocks are generated with mockery v2:
//
//	mockery --dir pkg/iface --name 'IDEDMA|IDEDMAV2|BusMasterIDE' --output pkg/iface/mocks
import (
	_ "github.com/vektra/mockery/v2"
)
