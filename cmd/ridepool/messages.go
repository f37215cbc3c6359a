package main

import (
	"context"
	"fmt"
	"strings"

	"ridepool/internal/models"
	"ridepool/internal/services"
	"ridepool/pkg/realtime"
)

func runChats(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("chats")
	with := fs.String("with", "", "comma separated user ids to start a conversation with")
	rideFlag := fs.String("ride", "", "ride the conversation is about")
	if _, err := parseFlags(fs, args); err != nil {
		return err
	}

	if *with != "" {
		req := &models.CreateConversationRequest{}
		for _, raw := range strings.Split(*with, ",") {
			id, err := parseID("user id", strings.TrimSpace(raw))
			if err != nil {
				return err
			}
			req.Participants = append(req.Participants, id)
		}
		if *rideFlag != "" {
			rideID, err := parseID("ride id", *rideFlag)
			if err != nil {
				return err
			}
			req.RideID = &rideID
		}
		conv, err := a.client.CreateConversation(ctx, req)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Conversation %s started.\n", conv.ID.Hex())
		return nil
	}

	conversations, err := services.NewMessageService(a.client, a.session.UserID(), a.logger).Conversations(ctx)
	if err != nil {
		return err
	}
	if len(conversations) == 0 {
		fmt.Fprintln(a.out, "No conversations yet.")
		return nil
	}
	w := newTable(a.out)
	fmt.Fprintln(w, "ID\tWITH\tLAST MESSAGE\tUPDATED")
	for _, c := range conversations {
		others := make([]string, 0, len(c.Participants))
		for _, p := range c.Participants {
			if p != a.session.UserID() {
				others = append(others, p.Hex())
			}
		}
		last := ""
		if c.LastMessage != nil {
			last = c.LastMessage.Content
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", c.ID.Hex(), strings.Join(others, ","), last, a.formatTime(c.UpdatedAt))
	}
	w.Flush()
	return nil
}

func runMessages(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("messages")
	send := fs.String("send", "", "message to send")
	follow := fs.Bool("follow", false, "keep printing new messages")
	positional, err := parseFlags(fs, args)
	if err != nil {
		return err
	}
	if len(positional) != 1 {
		return errUsage
	}
	conversationID, err := parseID("conversation id", positional[0])
	if err != nil {
		return err
	}

	thread := services.NewMessageService(a.client, a.session.UserID(), a.logger).Thread(conversationID)
	if err := thread.Load(ctx); err != nil {
		return err
	}
	if *send != "" {
		if _, err := thread.Send(ctx, *send); err != nil {
			return err
		}
	}
	printMessages(a, thread.Messages())

	if !*follow {
		return nil
	}

	bus, err := a.bus(ctx)
	if err != nil {
		return err
	}
	defer bus.Close()

	shown := len(thread.Messages())
	updates := make(chan struct{}, 1)
	sub := bus.Subscribe(models.EventNewMessage, func(e realtime.Event) {
		var msg models.Message
		if err := e.Decode(&msg); err != nil || msg.ConversationID != conversationID {
			return
		}
		select {
		case updates <- struct{}{}:
		default:
		}
	})
	defer bus.Unsubscribe(sub)

	fmt.Fprintln(a.out, "-- following, Ctrl+C to stop --")
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-updates:
			if err := thread.Load(ctx); err != nil {
				reportError(err)
				continue
			}
			messages := thread.Messages()
			if len(messages) > shown {
				printMessages(a, messages[shown:])
				shown = len(messages)
			}
		}
	}
}

func printMessages(a *app, messages []models.Message) {
	me := a.session.UserID()
	for _, m := range messages {
		who := m.SenderID.Hex()
		if m.SenderID == me {
			who = "you"
		}
		status := ""
		if m.Status == models.MessageStatusSending {
			status = " (sending)"
		}
		fmt.Fprintf(a.out, "[%s] %s: %s%s\n", a.formatTime(m.CreatedAt), who, m.Content, status)
	}
}
