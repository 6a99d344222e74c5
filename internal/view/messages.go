package view

import (
	"bytes"
	"strconv"
	"text/template"

	"fleetgate/internal/initseq"
	"fleetgate/pkg/logging"

	"github.com/Masterminds/sprig/v3"
)

// maxErrorLength bounds how much of a backend error message is echoed.
const maxErrorLength = 300

type message struct {
	title    string
	body     string
	blocking bool
}

var messages = map[Kind]message{
	KindLoading: {
		title:    "Loading Fleet",
		blocking: true,
	},
	KindPermissionRequestError: {
		title:    "Unable to check permissions",
		body:     "There was a problem checking Fleet permissions",
		blocking: true,
	},
	KindPermissionMissingRole: {
		title:    "Permission denied",
		body:     "You are not authorized to access Fleet. Fleet requires {{ .RoleName }} privileges.",
		blocking: true,
	},
	KindPermissionSecurityDisabled: {
		title:    "Security is not enabled",
		body:     "You must enable security in Kibana and Elasticsearch to use Fleet.",
		blocking: true,
	},
	KindInitializationError: {
		title: "Unable to initialize Fleet",
		body:  `{{ default "An unknown error occurred" .Error | trunc ` + strconv.Itoa(maxErrorLength) + ` }}`,
	},
	KindMain: {
		title: "Fleet",
	},
}

var templates = func() map[Kind]*template.Template {
	out := make(map[Kind]*template.Template, len(messages))
	for kind, m := range messages {
		if m.body == "" {
			continue
		}
		out[kind] = template.Must(template.New(string(kind)).Funcs(sprig.TxtFuncMap()).Parse(m.body))
	}
	return out
}()

type templateData struct {
	RoleName string
	Error    string
}

func render(kind Kind, state initseq.State) View {
	m := messages[kind]
	v := View{Kind: kind, Title: m.title, Blocking: m.blocking}

	tmpl, ok := templates[kind]
	if !ok {
		return v
	}

	data := templateData{RoleName: "superuser"}
	if state.Err != nil {
		data.Error = state.Err.Error()
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		logging.Error("View", err, "Failed to render %s message", kind)
		return v
	}
	v.Body = buf.String()
	return v
}
