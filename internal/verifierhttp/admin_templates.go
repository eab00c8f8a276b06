package verifierhttp

import (
	"fmt"
	"html"

	"walletdisclosure/pkg/model"
)

const adminCSS = `
<style>
	* { box-sizing: border-box; margin: 0; padding: 0; }
	body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; background: #f5f5f5; min-height: 100vh; }
	.container { max-width: 800px; margin: 0 auto; padding: 20px; }
	.card { background: white; border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); padding: 24px; margin-bottom: 20px; }
	h1 { color: #333; margin-bottom: 20px; }
	h2 { color: #555; margin-bottom: 16px; font-size: 1.25rem; }
	.nav { background: #2563eb; padding: 16px 20px; margin-bottom: 20px; border-radius: 8px; display: flex; justify-content: space-between; align-items: center; }
	.nav a { color: white; text-decoration: none; margin-right: 20px; }
	table { width: 100%; border-collapse: collapse; margin-top: 16px; }
	th, td { padding: 12px; text-align: left; border-bottom: 1px solid #eee; }
	.alert-error { background: #fef2f2; border: 1px solid #fecaca; color: #dc2626; padding: 12px; border-radius: 6px; margin-bottom: 16px; }
</style>
`

func navBarHTML() string {
	return `<div class="nav"><span class="nav-title">Verifier Admin</span>
		<form method="POST" action="/admin/logout"><button type="submit">Logout</button></form></div>`
}

func loginPageHTML(errorMsg string) string {
	var errorHTML string
	if errorMsg != "" {
		errorHTML = fmt.Sprintf(`<div class="alert-error">%s</div>`, html.EscapeString(errorMsg))
	}
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en"><head><meta charset="UTF-8"><title>Verifier Admin - Login</title>%s</head>
<body><div class="container"><div class="card">
	<h1>Verifier Admin</h1>
	%s
	<form method="POST" action="/admin/login">
		<label>Username</label><input type="text" name="username" required autofocus><br>
		<label>Password</label><input type="password" name="password" required><br>
		<button type="submit">Login</button>
	</form>
</div></div></body></html>`, adminCSS, errorHTML)
}

func dashboardPageHTML(useCases map[string]model.UseCase) string {
	var rows string
	for id, uc := range useCases {
		rows += fmt.Sprintf(`<tr><td>%s</td><td>%s</td><td>%s</td></tr>`,
			html.EscapeString(id), html.EscapeString(uc.DoctypeValue), html.EscapeString(uc.ReturnURLPolicy))
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en"><head><meta charset="UTF-8"><title>Verifier Admin - Dashboard</title>%s</head>
<body>
	%s
	<div class="container">
		<div class="card">
			<h2>Registered use cases</h2>
			<table><thead><tr><th>ID</th><th>Doctype</th><th>Return URL policy</th></tr></thead>
			<tbody>%s</tbody></table>
		</div>
		<div class="card">
			<h2>Look up a session</h2>
			<form method="GET" action="/admin/sessions/lookup" onsubmit="window.location='/admin/sessions/'+this.token.value; return false;">
				<input type="text" name="token" placeholder="session token" required>
				<button type="submit">Go</button>
			</form>
		</div>
	</div>
</body></html>`, adminCSS, navBarHTML(), rows)
}

func sessionPageHTML(session *sessionView) string {
	if session == nil {
		session = &sessionView{Token: "", Status: "unknown"}
	}

	exportLink := ""
	if session.Status == "DONE" {
		exportLink = fmt.Sprintf(`<a href="/admin/sessions/%s/export.xlsx">Download disclosed attributes (.xlsx)</a>`, html.EscapeString(session.Token))
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en"><head><meta charset="UTF-8"><title>Verifier Admin - Session</title>%s</head>
<body>
	%s
	<div class="container"><div class="card">
		<h2>Session %s</h2>
		<p>Status: %s</p>
		%s
	</div></div>
</body></html>`, adminCSS, navBarHTML(), html.EscapeString(session.Token), html.EscapeString(session.Status), exportLink)
}

// sessionView is the admin-facing projection of a session, avoiding a
// direct html-package dependency on verifiersession.Session's JSON tags.
type sessionView struct {
	Token  string
	Status string
}
