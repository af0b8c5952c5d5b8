// Command smoke drives a running API through a teacher/parent flow: register both accounts,
// open a semester, enroll the parent, exchange a message and mark it read.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/school-connect-api/internal/models"
	"github.com/noah-isme/school-connect-api/pkg/apiclient"
)

func main() {
	var (
		baseURL string
		timeout time.Duration
	)
	flag.StringVar(&baseURL, "base", "http://localhost:8080/api/v1", "API base URL including prefix")
	flag.DurationVar(&timeout, "timeout", 30*time.Second, "overall timeout")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := run(ctx, apiclient.New(baseURL)); err != nil {
		log.Fatalf("smoke failed: %v", err)
	}
	log.Println("smoke passed")
}

func run(ctx context.Context, client *apiclient.Client) error {
	suffix := uuid.NewString()[:8]

	teacher, err := client.Register(ctx, models.RegisterRequest{
		FullName: "Smoke Teacher",
		Email:    fmt.Sprintf("teacher-%s@smoke.test", suffix),
		Password: "smoke-secret",
		Role:     string(models.RoleTeacher),
		Subjects: []string{"Math"},
	})
	if err != nil {
		return fmt.Errorf("register teacher: %w", err)
	}
	parent, err := client.Register(ctx, models.RegisterRequest{
		FullName:  "Smoke Parent",
		Email:     fmt.Sprintf("parent-%s@smoke.test", suffix),
		Password:  "smoke-secret",
		Role:      string(models.RoleParent),
		ChildName: "Smoke Child",
		StudentID: "S-" + suffix,
	})
	if err != nil {
		return fmt.Errorf("register parent: %w", err)
	}

	asTeacher := apiclient.WithToken(ctx, teacher.Token)
	asParent := apiclient.WithToken(ctx, parent.Token)

	now := time.Now().UTC()
	semester, err := client.CreateSemester(asTeacher, models.CreateSemesterRequest{
		Name:       "Smoke Semester " + suffix,
		SchoolYear: fmt.Sprintf("%d/%d", now.Year(), now.Year()+1),
		StartDate:  now.AddDate(0, 0, -1),
		EndDate:    now.AddDate(0, 4, 0),
	})
	if err != nil {
		return fmt.Errorf("create semester: %w", err)
	}

	semester, err = client.AddParticipant(asTeacher, semester.ID, models.AddParticipantRequest{
		Version: semester.Version,
		UserID:  parent.User.ID,
		Role:    string(models.RoleParent),
	})
	if err != nil {
		return fmt.Errorf("add participant: %w", err)
	}
	log.Printf("semester %s at version %d with %d participants", semester.ID, semester.Version, len(semester.Participants))

	if _, err := client.SendMessage(asTeacher, models.SendMessageRequest{
		RecipientID: parent.User.ID,
		SemesterID:  semester.ID,
		Content:     "Welcome to the semester",
	}); err != nil {
		return fmt.Errorf("send message: %w", err)
	}

	inbox, err := client.Conversations(asParent, semester.ID)
	if err != nil {
		return fmt.Errorf("parent conversations: %w", err)
	}
	unread := 0
	for _, conv := range inbox {
		if conv.Counterpart.ID == teacher.User.ID {
			unread = conv.UnreadCount
		}
	}
	if unread != 1 {
		return fmt.Errorf("expected 1 unread message from teacher, got %d", unread)
	}

	receipt, err := client.MarkRead(asParent, teacher.User.ID, semester.ID)
	if err != nil {
		return fmt.Errorf("mark read: %w", err)
	}
	if receipt.UnreadCount != 0 {
		return fmt.Errorf("expected unread count 0 after mark read, got %d", receipt.UnreadCount)
	}

	me, err := client.Me(asParent)
	if err != nil {
		return fmt.Errorf("me: %w", err)
	}
	log.Printf("flow completed for %s", me.Email)
	return nil
}
