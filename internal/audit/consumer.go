package audit

import (
    "encoding/json"
    "errors"
    "fmt"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"
    "github.com/rs/zerolog"
)

// Retention matches the original operations policy: keep six months of
// activity files.
const retention = 6 * 30 * 24 * time.Hour

// StartConsumer connects to RabbitMQ, declares the activity.recorded queue
// (durable) and consumes events into monthly log files under dir.  It runs
// a reconnect loop with backoff and never returns under normal operation;
// processing errors are logged and the offending message rejected without
// requeue so a poison message cannot wedge the trail.  A retention sweep
// runs at start and daily afterwards.
func StartConsumer(url, dir string, log zerolog.Logger) error {
    w, err := NewLogWriter(dir)
    if err != nil {
        return err
    }

    if n, err := w.Sweep(retention); err != nil {
        log.Warn().Err(err).Msg("audit retention sweep failed")
    } else if n > 0 {
        log.Info().Int("removed", n).Msg("audit retention sweep removed old files")
    }
    go func() {
        t := time.NewTicker(24 * time.Hour)
        defer t.Stop()
        for range t.C {
            if _, err := w.Sweep(retention); err != nil {
                log.Warn().Err(err).Msg("audit retention sweep failed")
            }
        }
    }()

    backoff := time.Second
    for {
        conn, err := amqp.Dial(url)
        if err != nil {
            log.Warn().Err(err).Dur("retry_in", backoff).Msg("audit consumer: broker dial failed")
            time.Sleep(backoff)
            if backoff < 30*time.Second {
                backoff *= 2
            }
            continue
        }
        backoff = time.Second // reset after successful connect

        if err := consumeLoop(conn, w, log); err != nil {
            log.Warn().Err(err).Msg("audit consumer: consume loop ended, reconnecting")
            time.Sleep(2 * time.Second)
        }
    }
}

func consumeLoop(conn *amqp.Connection, w *LogWriter, log zerolog.Logger) error {
    defer func() { _ = conn.Close() }()

    ch, err := conn.Channel()
    if err != nil {
        return fmt.Errorf("channel open: %w", err)
    }
    defer func() { _ = ch.Close() }()

    if err := ch.Qos(50, 0, false); err != nil {
        log.Warn().Err(err).Msg("audit consumer: set QoS failed")
    }

    if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
        return fmt.Errorf("queue declare: %w", err)
    }

    msgs, err := ch.Consume(queueName, "", false, false, false, false, nil)
    if err != nil {
        return fmt.Errorf("queue consume: %w", err)
    }

    for d := range msgs {
        var ev Event
        if err := json.Unmarshal(d.Body, &ev); err != nil {
            log.Warn().Err(err).Msg("audit consumer: bad event payload")
            _ = d.Nack(false, false) // reject, do not requeue
            continue
        }
        if err := w.Append(ev); err != nil {
            log.Warn().Err(err).Str("kind", ev.Kind).Msg("audit consumer: append failed")
            _ = d.Nack(false, false)
            continue
        }
        _ = d.Ack(false)
    }
    return errors.New("deliveries channel closed")
}
