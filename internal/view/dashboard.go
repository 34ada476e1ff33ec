package view

import (
	"time"

	"github.com/a-h/templ"
)

type stat struct {
	Value string
	Label string
}

type dashboardCard struct {
	Title       string
	Description string
	Action      string
}

var dashboardStats = []stat{
	{"1,247", "Total Conversations"},
	{"89%", "Success Rate"},
	{"156", "Active Users"},
	{"24", "Avg Response Time (s)"},
}

var dashboardCards = []dashboardCard{
	{"Chatbot Management", "Configure responses, train the AI model, and manage conversation flows for your college chatbot.", "Manage Bot"},
	{"Analytics & Reports", "View detailed analytics, conversation metrics, and generate comprehensive reports.", "View Analytics"},
	{"User Management", "Manage student accounts, set permissions, and monitor user activity across the platform.", "Manage Users"},
	{"System Settings", "Configure system preferences, integration settings, and security options.", "Open Settings"},
	{"Knowledge Base", "Manage FAQ database, course information, and educational content for the chatbot.", "Edit Content"},
	{"Notifications", "Configure alert settings, manage notification preferences, and review system messages.", "View Alerts"},
}

type DashboardPageData struct {
	FullName    string
	LoginTime   time.Time
	IdleTimeout time.Duration
}

type dashboardView struct {
	FullName          string
	LoginTime         time.Time
	IdleTimeoutMillis int64
	Stats             []stat
	Cards             []dashboardCard
}

// DashboardPage renders the admin dashboard. A non-zero IdleTimeout arms
// the in-page inactivity logout.
func DashboardPage(data DashboardPageData) templ.Component {
	name := data.FullName
	if name == "" {
		name = "Admin"
	}
	return page("dashboard", dashboardView{
		FullName:          name,
		LoginTime:         data.LoginTime,
		IdleTimeoutMillis: data.IdleTimeout.Milliseconds(),
		Stats:             dashboardStats,
		Cards:             dashboardCards,
	})
}
