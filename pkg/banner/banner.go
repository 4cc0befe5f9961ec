package banner

import (
	"fmt"

	"agoradb/pkg/config"
)

const banner = `
 █████╗  ██████╗  ██████╗ ██████╗  █████╗     ██████╗ ██████╗
██╔══██╗██╔════╝ ██╔═══██╗██╔══██╗██╔══██╗    ██╔══██╗██╔══██╗
███████║██║  ███╗██║   ██║██████╔╝███████║    ██║  ██║██████╔╝
██╔══██║██║   ██║██║   ██║██╔══██╗██╔══██║    ██║  ██║██╔══██╗
██║  ██║╚██████╔╝╚██████╔╝██║  ██║██║  ██║    ██████╔╝██████╔╝
╚═╝  ╚═╝ ╚═════╝  ╚═════╝ ╚═╝  ╚═╝╚═╝  ╚═╝    ╚═════╝ ╚═════╝
`

// PrintWithEff prints the startup banner using the effective config so
// runtime context (addr, db path, key counts, source) shows centrally.
func PrintWithEff(eff config.EffectiveConfigResult, version string) {
	addr := eff.Addr
	if addr == "" && eff.Config != nil {
		addr = eff.Config.Addr()
	}
	dbPath := eff.DBPath
	if dbPath == "" && eff.Config != nil {
		dbPath = eff.Config.Server.DBPath
	}
	src := eff.Source
	if src == "" {
		src = "flags"
	}

	fmt.Print(banner)
	fmt.Println("== Config =====================================================")
	fmt.Printf("Listen:   %s\n", addr)
	fmt.Printf("DB Path:  %s\n", dbPath)
	if version != "" {
		fmt.Printf("Version:  %s\n", version)
	}
	fmt.Printf("Config:   %s\n", src)
	if eff.Config != nil {
		fmt.Printf("Operator: %s\n", eff.Config.Forum.Operator)
	}

	fmt.Println("\n== Endpoints ==================================================")
	fmt.Println("POST /v1/threads - Create a thread (JSON: name; X-Attached-Deposit)")
	fmt.Println("GET  /v1/threads?from=<n>&limit=<n> - List threads, newest first")
	fmt.Println("POST /v1/threads/{name}/posts - Add a post (JSON: text, cid)")
	fmt.Println("PUT  /v1/people - Create or update your profile")
	fmt.Println("POST /v1/friend-requests - Send a friend request (JSON: to, message)")

	fmt.Println("\n== Examples ===================================================")
	fmt.Println("curl -X POST 'http://<host>:<port>/v1/threads' -d '{\"name\": \"general\"}'")
	fmt.Println("curl 'http://<host>:<port>/v1/threads/general?from=0&limit=10'")

	fmt.Println("\n== Production? =================================================")
	be, fe, ak := 0, 0, 0
	if eff.Config != nil {
		be = len(eff.Config.Security.APIKeys.Backend)
		fe = len(eff.Config.Security.APIKeys.Frontend)
		ak = len(eff.Config.Security.APIKeys.Admin)
	}
	if be > 0 {
		fmt.Printf("- Backend API keys: OK (%d)\n", be)
	} else {
		fmt.Println("- Backend API keys: MISSING (required for backend services)")
	}
	if fe > 0 {
		fmt.Printf("- Frontend API keys: OK (%d)\n", fe)
	} else {
		fmt.Println("- Frontend API keys: MISSING (required for client access)")
	}
	if ak > 0 {
		fmt.Printf("- Admin API keys: OK (%d)\n", ak)
	} else {
		fmt.Println("- Admin API keys: MISSING (required for admin tooling)")
	}
	tlsOK := eff.Config != nil && eff.Config.Server.TLS.CertFile != "" && eff.Config.Server.TLS.KeyFile != ""
	if tlsOK {
		fmt.Println("- TLS: configured")
	} else {
		fmt.Println("- TLS: not configured (use a terminating proxy or set cert/key)")
	}
}
