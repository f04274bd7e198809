// Package serve provides the adfctl JSON API.
//
// # Endpoints
//
//	GET  /api/list              images in the image directory
//	GET  /api/status            drive unit status (502 when unavailable)
//	GET  /api/configs           profiles, the selected one and the active one
//	GET  /api/config            the selected profile, kickstarts and HDFs
//	GET  /api/health            setup check (control service, xdftool, config)
//	POST /api/config            patch the selected profile
//	POST /api/config/select     select a profile for /api/config
//	POST /api/config/create     create a profile (name, base)
//	POST /api/config/activate   copy a profile onto the active config
//	POST /api/insert            insert an image (unit, rw, path)
//	POST /api/eject             eject a unit
//	POST /api/create            create a blank ADF (name, volume)
//	POST /api/clone             clone an image (src, dest)
//
// POST parameters may be sent as a JSON object, as form values or in the
// query string, looked up in that order.
//
// # Errors
//
// Failures are reported as {"error": "..."} with a status derived from the
// error's kind: 400 for invalid input, 404 for missing files, 409 for
// existing files and full drives, 502 when the control service fails and
// 503 when xdftool is missing.
package serve
