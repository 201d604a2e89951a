package main

import (
	"consultoria-tcp/handlers"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// request is one parsed REPL line, ready to be sent.
type request struct {
	commandType string
	data        map[string]any
}

const usage = `commands:
  ping
  register <name> <email> <password> <CLIENT|CONSULTANT>
  login <email> <password>
  logout
  create <name> [LOW|MEDIUM|HIGH]
  project <projectId>
  projects
  accept <projectId>
  send <projectId> <content...>
  messages <projectId>
  chats
  search <projectId> <query...>
  profile [userId]
  rename <name...>
  photo <file>
  getphoto [userId]
  roadmaps [projectId]
  roadmap <roadmapId>
  newroadmap <projectId> <title> [| step | step...]
  sharemap <roadmapId>
  delroadmap <roadmapId>
  raw <json line>
  help
  quit`

var errQuit = fmt.Errorf("quit")

// parseCommand turns a REPL line into a request. raw lines are returned with
// commandType empty and the JSON in data["line"].
func parseCommand(line string) (request, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return request{}, fmt.Errorf("empty command")
	}
	name, args := strings.ToLower(fields[0]), fields[1:]

	switch name {
	case "quit", "exit":
		return request{}, errQuit
	case "help":
		return request{}, fmt.Errorf("%s", usage)
	case "raw":
		rest := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), fields[0]))
		if rest == "" {
			return request{}, fmt.Errorf("usage: raw <json line>")
		}
		return request{data: map[string]any{"line": rest}}, nil
	case "ping":
		return request{commandType: handlers.CommandPing}, nil
	case "register":
		if len(args) != 4 {
			return request{}, fmt.Errorf("usage: register <name> <email> <password> <role>")
		}
		return request{commandType: handlers.CommandAuth, data: map[string]any{
			"action": handlers.ActionRegister, "name": args[0], "email": args[1], "password": args[2], "role": args[3],
		}}, nil
	case "login":
		if len(args) != 2 {
			return request{}, fmt.Errorf("usage: login <email> <password>")
		}
		return request{commandType: handlers.CommandAuth, data: map[string]any{
			"action": handlers.ActionLogin, "email": args[0], "password": args[1],
		}}, nil
	case "logout":
		return request{commandType: handlers.CommandAuth, data: map[string]any{"action": handlers.ActionLogout}}, nil
	case "create":
		if len(args) < 1 || len(args) > 2 {
			return request{}, fmt.Errorf("usage: create <name> [priority]")
		}
		data := map[string]any{"action": handlers.ActionCreate, "name": args[0]}
		if len(args) == 2 {
			data["priority"] = args[1]
		}
		return request{commandType: handlers.CommandProject, data: data}, nil
	case "projects":
		return request{commandType: handlers.CommandProject, data: map[string]any{"action": handlers.ActionList}}, nil
	case "chats":
		return request{commandType: handlers.CommandChat, data: map[string]any{"action": handlers.ActionGetProjectsWithChat}}, nil
	case "project", "accept", "messages":
		if len(args) != 1 {
			return request{}, fmt.Errorf("usage: %s <projectId>", name)
		}
		projectID, err := parseProjectID(args[0])
		if err != nil {
			return request{}, err
		}
		switch name {
		case "project":
			return request{commandType: handlers.CommandProject, data: map[string]any{"action": handlers.ActionGet, "projectId": projectID}}, nil
		case "accept":
			return request{commandType: handlers.CommandChat, data: map[string]any{"action": handlers.ActionAcceptProject, "projectId": projectID}}, nil
		default:
			return request{commandType: handlers.CommandChat, data: map[string]any{"action": handlers.ActionGetMessages, "projectId": projectID}}, nil
		}
	case "send", "search":
		if len(args) < 2 {
			return request{}, fmt.Errorf("usage: %s <projectId> <text...>", name)
		}
		projectID, err := parseProjectID(args[0])
		if err != nil {
			return request{}, err
		}
		text := strings.Join(args[1:], " ")
		if name == "send" {
			return request{commandType: handlers.CommandChat, data: map[string]any{
				"action": handlers.ActionSendMessage, "projectId": projectID, "content": text,
			}}, nil
		}
		return request{commandType: handlers.CommandChat, data: map[string]any{
			"action": handlers.ActionSearchMessages, "projectId": projectID, "query": text,
		}}, nil
	case "profile", "getphoto":
		if len(args) > 1 {
			return request{}, fmt.Errorf("usage: %s [userId]", name)
		}
		action := handlers.ActionGet
		if name == "getphoto" {
			action = handlers.ActionGetPhoto
		}
		data := map[string]any{"action": action}
		if len(args) == 1 {
			userID, err := parseID("user", args[0])
			if err != nil {
				return request{}, err
			}
			data["userId"] = userID
		}
		return request{commandType: handlers.CommandProfile, data: data}, nil
	case "rename":
		if len(args) == 0 {
			return request{}, fmt.Errorf("usage: rename <name...>")
		}
		return request{commandType: handlers.CommandProfile, data: map[string]any{
			"action": handlers.ActionUpdate, "name": strings.Join(args, " "),
		}}, nil
	case "photo":
		if len(args) != 1 {
			return request{}, fmt.Errorf("usage: photo <file>")
		}
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return request{}, fmt.Errorf("read photo: %w", err)
		}
		return request{commandType: handlers.CommandProfile, data: map[string]any{
			"action":    handlers.ActionUploadPhoto,
			"photoData": base64.StdEncoding.EncodeToString(raw),
			"fileName":  filepath.Base(args[0]),
		}}, nil
	case "roadmaps":
		if len(args) > 1 {
			return request{}, fmt.Errorf("usage: roadmaps [projectId]")
		}
		data := map[string]any{"action": handlers.ActionList}
		if len(args) == 1 {
			projectID, err := parseProjectID(args[0])
			if err != nil {
				return request{}, err
			}
			data["projectId"] = projectID
		}
		return request{commandType: handlers.CommandRoadmap, data: data}, nil
	case "roadmap", "sharemap", "delroadmap":
		if len(args) != 1 {
			return request{}, fmt.Errorf("usage: %s <roadmapId>", name)
		}
		roadmapID, err := parseID("roadmap", args[0])
		if err != nil {
			return request{}, err
		}
		action := map[string]string{
			"roadmap":    handlers.ActionGet,
			"sharemap":   handlers.ActionSend,
			"delroadmap": handlers.ActionDelete,
		}[name]
		return request{commandType: handlers.CommandRoadmap, data: map[string]any{"action": action, "roadmapId": roadmapID}}, nil
	case "newroadmap":
		if len(args) < 2 {
			return request{}, fmt.Errorf("usage: newroadmap <projectId> <title> [| step | step...]")
		}
		projectID, err := parseProjectID(args[0])
		if err != nil {
			return request{}, err
		}
		parts := strings.Split(strings.Join(args[1:], " "), "|")
		var steps []any
		for _, part := range parts[1:] {
			if title := strings.TrimSpace(part); title != "" {
				steps = append(steps, map[string]any{"title": title})
			}
		}
		return request{commandType: handlers.CommandRoadmap, data: map[string]any{
			"action": handlers.ActionCreate, "projectId": projectID, "title": strings.TrimSpace(parts[0]), "steps": steps,
		}}, nil
	default:
		return request{}, fmt.Errorf("unknown command %q, type help", name)
	}
}

func parseProjectID(s string) (int64, error) {
	return parseID("project", s)
}

func parseID(kind, s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s id %q", kind, s)
	}
	return id, nil
}
