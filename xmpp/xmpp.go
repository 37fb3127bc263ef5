package xmpp

import (
	"crypto/tls"
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-xmpp"
	log "github.com/sirupsen/logrus"

	"github.com/oars-gb/course-server/helm"
)

// Config for the notifier.
type Config struct {
	Host     string
	Jid      string
	Password string
	To       string
}

// Notifier forwards terminal course events to a chat recipient. It
// implements helm.Reporter; per-waypoint chatter is dropped.
type Notifier struct {
	Config Config
}

func serverName(jid string) string {
	return strings.Split(jid, "@")[1]
}

func (n *Notifier) configured() bool {
	return len(n.Config.Jid) > 0 && len(n.Config.Password) > 0 && len(n.Config.To) > 0
}

func (n *Notifier) Report(e helm.Event) {
	switch e.Kind {
	case helm.EventCourseComplete, helm.EventNoFeasibleHeading:
	default:
		return
	}

	go func() {
		if err := n.Send(fmt.Sprintf("[%s] %s", e.Kind, e.Message)); err != nil {
			log.WithError(err).Error("Error sending xmpp notification")
		}
	}()
}

func (n *Notifier) Send(message string) error {

	if !n.configured() {
		return errors.New("missing xmpp config")
	}

	host := n.Config.Host
	if len(host) == 0 {
		host = serverName(n.Config.Jid)
	}

	xmpp.DefaultConfig = tls.Config{
		InsecureSkipVerify: true,
	}

	options := xmpp.Options{
		Host:     host,
		User:     n.Config.Jid,
		Password: n.Config.Password,
		NoTLS:    true,
		StartTLS: true,
		Session:  false,
		Status:   "xa",
	}

	talk, err := options.NewClient()
	if err != nil {
		return err
	}
	defer talk.Close()

	_, err = talk.Send(xmpp.Chat{Remote: n.Config.To, Type: "chat", Text: message})
	return err
}
