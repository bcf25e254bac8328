package message

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"
)

var words = strings.Fields(`lorem ipsum dolor sit amet consectetur adipiscing
elit sed do eiusmod tempor incididunt ut labore et dolore magna aliqua ut enim
ad minim veniam quis nostrud exercitation ullamco laboris nisi aliquip ex ea
commodo consequat duis aute irure in reprehenderit voluptate velit esse cillum
fugiat nulla pariatur excepteur sint occaecat cupidatat non proident sunt culpa
qui officia deserunt mollit anim id est laborum`)

// Generator produces a reproducible fake conversation.
type Generator struct {
	rnd *rand.Rand
	n   int
	now time.Time
}

func NewGenerator(seed uint64) *Generator {
	return &Generator{
		rnd: rand.New(rand.NewPCG(seed, seed)),
		now: time.Now().Add(-time.Hour),
	}
}

// Next returns the next message, alternating between the user and the
// assistant with the occasional system notice.
func (g *Generator) Next() *Message {
	g.n++
	g.now = g.now.Add(time.Duration(g.rnd.IntN(90)+5) * time.Second)

	role := User
	switch {
	case g.n%17 == 0:
		role = System
	case g.n%2 == 0:
		role = Assistant
	}
	msg := New(role, author(role), g.body(role))
	msg.CreatedAt = g.now
	return msg
}

// Messages returns the next n messages.
func (g *Generator) Messages(n int) []*Message {
	msgs := make([]*Message, 0, n)
	for range n {
		msgs = append(msgs, g.Next())
	}
	return msgs
}

// Chunks splits a fresh reply into streaming chunks.
func (g *Generator) Chunks() []string {
	body := g.body(Assistant)
	fields := strings.SplitAfter(body, " ")
	chunks := make([]string, 0, len(fields))
	for len(fields) > 0 {
		n := min(len(fields), g.rnd.IntN(3)+1)
		chunks = append(chunks, strings.Join(fields[:n], ""))
		fields = fields[n:]
	}
	return chunks
}

func (g *Generator) sentence() string {
	n := g.rnd.IntN(12) + 4
	parts := make([]string, n)
	for i := range parts {
		parts[i] = words[g.rnd.IntN(len(words))]
	}
	s := strings.Join(parts, " ")
	return strings.ToUpper(s[:1]) + s[1:] + "."
}

func (g *Generator) body(role Role) string {
	if role == System {
		return fmt.Sprintf("Session checkpoint %d saved.", g.n)
	}
	var b strings.Builder
	paragraphs := 1
	if role == Assistant {
		paragraphs = g.rnd.IntN(3) + 1
	}
	for p := range paragraphs {
		if p > 0 {
			b.WriteString("\n\n")
		}
		for i := range g.rnd.IntN(3) + 1 {
			if i > 0 {
				b.WriteString(" ")
			}
			b.WriteString(g.sentence())
		}
	}
	if role == Assistant && g.rnd.IntN(4) == 0 {
		b.WriteString("\n\n")
		for range g.rnd.IntN(3) + 2 {
			b.WriteString("- " + g.sentence() + "\n")
		}
	}
	if role == Assistant && g.rnd.IntN(6) == 0 {
		b.WriteString("\n\n```go\nfmt.Println(\"" + words[g.rnd.IntN(len(words))] + "\")\n```")
	}
	return b.String()
}

func author(role Role) string {
	switch role {
	case User:
		return "You"
	case Assistant:
		return "Assistant"
	default:
		return "System"
	}
}
