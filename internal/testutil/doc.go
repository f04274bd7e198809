// Package testutil provides test fixtures and utilities.
//
// # Fixtures
//
// Fixtures are embedded using go:embed:
//
//	fixtures/default.cfg            // sample emulator config
//	fixtures/invalid_settings.toml  // settings that fail validation
//
// # Test Environment
//
// NewTestEnv builds a complete environment in a temp directory: image,
// kickstart, HDF and profile directories, the sample config as the active
// config, a fake control service emulating four drive units and a mock
// xdftool. It installs its App as app.Default until the test ends:
//
//	func TestInsert(t *testing.T) {
//	    env := testutil.NewTestEnv(t, 0) // DF0 occupied
//	    env.AddImage("games/Lemmings.adf", 901120)
//
//	    res, err := env.App.Insert(ctx, app.InsertRequest{Image: "games/Lemmings.adf"})
//	    ...
//	}
package testutil
