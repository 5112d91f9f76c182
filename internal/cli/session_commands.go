package cli

import (
	"fmt"
	"strings"

	"github.com/tradermate/tradermate/internal/agent"
	"github.com/tradermate/tradermate/internal/memory"
)

const sessionListLimit = 10

// handleSessionCommand handles /sessions and /session subcommands
func handleSessionCommand(args []string, ag *agent.Agent, store memory.Store) {
	if len(args) == 0 {
		printSessionList(ag, store)
		return
	}

	switch strings.ToLower(args[0]) {
	case "list":
		printSessionList(ag, store)
	case "restore":
		if len(args) < 2 {
			fmt.Printf("%s❌ Please specify a session ID: /session restore <id>%s\n", colorRed, colorReset)
			return
		}
		restoreSession(args[1], ag, store)
	default:
		fmt.Printf("%sUsage: /sessions | /session restore <id>%s\n", colorGray, colorReset)
	}
}

// printSessionList lists recent sessions with their first user message
func printSessionList(ag *agent.Agent, store memory.Store) {
	sessions, err := store.ListSessions(sessionListLimit)
	if err != nil {
		fmt.Printf("%s❌ Failed to list sessions: %v%s\n", colorRed, err, colorReset)
		return
	}
	if len(sessions) == 0 {
		fmt.Printf("%sNo sessions yet%s\n", colorGray, colorReset)
		return
	}

	fmt.Printf("%sRecent sessions:%s\n", colorYellow, colorReset)
	for _, session := range sessions {
		marker := " "
		if session.ID == ag.SessionID() {
			marker = "*"
		}
		fmt.Printf("%s %s%s%s  %s  %s\n",
			marker,
			colorCyan, shortSessionID(session.ID), colorReset,
			session.UpdatedAt.Format("2006-01-02 15:04"),
			truncateForDisplay(firstUserMessage(store, session.ID), 40),
		)
	}
	fmt.Printf("%sUse /session restore <id> to switch (full or short ID)%s\n", colorGray, colorReset)
}

// restoreSession switches the agent to an existing session. A short ID
// prefix is resolved against the recent session list.
func restoreSession(id string, ag *agent.Agent, store memory.Store) {
	target := id
	if session, _ := store.GetSession(id); session == nil {
		sessions, err := store.ListSessions(0)
		if err == nil {
			for _, session := range sessions {
				if strings.HasPrefix(session.ID, id) {
					target = session.ID
					break
				}
			}
		}
	}

	if err := ag.SwitchSession(target); err != nil {
		fmt.Printf("%s❌ Failed to restore session: %v%s\n", colorRed, err, colorReset)
		return
	}
	fmt.Printf("%s✅ Switched to session %s%s\n", colorGreen, shortSessionID(target), colorReset)
}

// firstUserMessage returns the first user message of a session, if any
func firstUserMessage(store memory.Store, sessionID string) string {
	msgs, err := store.GetMessages(sessionID, 0)
	if err != nil {
		return ""
	}
	for _, msg := range msgs {
		if msg.Role == "user" {
			return msg.Content
		}
	}
	return "(empty)"
}

// shortSessionID returns the first 8 characters of a session ID
func shortSessionID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// truncateForDisplay flattens whitespace and truncates text for list output
func truncateForDisplay(text string, maxLen int) string {
	text = strings.ReplaceAll(text, "\r", "")
	text = strings.ReplaceAll(text, "\n", " ")
	text = strings.TrimSpace(text)
	if len(text) <= maxLen {
		return text
	}
	return text[:maxLen] + "..."
}
