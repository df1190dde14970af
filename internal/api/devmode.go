package api

import (
	"github.com/cadenza/cadenza/internal/catalog/mock"
)

// handleDevModeToggle runs when a connected client requests a developer
// mode change over the WebSocket. It swaps the active database and the
// catalog provider; the hub broadcasts the outcome to all clients.
func (s *Server) handleDevModeToggle(enabled bool) error {
	if err := s.dbManager.SetDevMode(enabled); err != nil {
		return err
	}

	s.updateServicesDB()
	s.switchCatalogProvider(enabled)

	s.logger.Info().Bool("enabled", enabled).Msg("developer mode toggled")
	return nil
}

// updateServicesDB updates all services to use the current database
// connection. This must be called after switching databases.
func (s *Server) updateServicesDB() {
	db := s.dbManager.Conn()
	s.historyService.SetDB(db)
	s.profileService.SetDB(db)
	s.authService.SetDB(db)
	s.passkeyService.SetDB(db)
}

// switchCatalogProvider points the catalog service at the mock or the
// real provider. SetProvider drops the result cache, so stale entries
// from the other provider cannot leak across the switch.
func (s *Server) switchCatalogProvider(devMode bool) {
	if devMode {
		s.logger.Info().Msg("switching to mock catalog provider")
		s.catalogService.SetProvider(mock.NewProvider())
	} else {
		s.logger.Info().Msg("switching to real catalog provider")
		s.catalogService.SetProvider(s.realProvider)
	}
}
