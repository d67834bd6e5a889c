package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"sync"
	"unicode/utf8"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// SocketServer serves message parsing over a line-framed stream socket:
// one message per line in, the serialized response followed by a newline out.
// Inbound lines are truncated to the configured maximum message size before
// they reach the parser.
//
// Try it with socat:
//
//	$ socat - UNIX-CONNECT:/tmp/msgparse.sock
//	@helloworld (coffee) (sandwich)
//	{
//	    "mentions": [
//	        "helloworld"
//	    ],
//	    ...
//	}
type SocketServer struct {
	processor      *MessageProcessor
	network        string
	addr           string
	maxMessageSize int
	maxURLs        int
	logger         *zap.Logger

	listener net.Listener
	wg       sync.WaitGroup
}

// NewSocketServer creates a socket server; call Start to begin listening.
func NewSocketServer(processor *MessageProcessor, config *configuration, logger *zap.Logger) *SocketServer {
	return &SocketServer{
		processor:      processor,
		network:        config.SocketNetwork,
		addr:           config.SocketAddr,
		maxMessageSize: config.MaxMessageSize,
		maxURLs:        config.MaxURLs,
		logger:         logger,
	}
}

// Start binds the listener and begins accepting connections in the background.
func (s *SocketServer) Start() error {
	listener, err := net.Listen(s.network, s.addr)
	if err != nil {
		return errors.Wrapf(err, "failed to listen on %s %s", s.network, s.addr)
	}

	s.listener = listener
	s.logger.Info("Socket server listening",
		zap.String("network", s.network),
		zap.String("addr", s.addr))

	s.wg.Add(1)
	go s.acceptLoop()
	return nil
}

// Addr returns the bound listener address. Useful when listening on ":0".
func (s *SocketServer) Addr() net.Addr {
	return s.listener.Addr()
}

// Shutdown stops accepting connections, closes the listener and waits for
// in-flight connections to finish.
func (s *SocketServer) Shutdown() error {
	err := s.listener.Close()
	s.wg.Wait()
	return err
}

func (s *SocketServer) acceptLoop() {
	defer s.wg.Done()

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			// Listener closed during shutdown.
			return
		}

		s.wg.Add(1)
		go s.handleConnection(conn)
	}
}

func (s *SocketServer) handleConnection(conn net.Conn) {
	defer s.wg.Done()
	defer conn.Close()

	reader := bufio.NewReader(conn)
	for {
		message, err := readLine(reader, s.maxMessageSize)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				s.logger.Debug("Connection read failed", zap.Error(err))
			}
			return
		}

		response, err := s.processor.ParseMessage(context.Background(), message, s.maxURLs)
		if err != nil {
			s.logger.Warn("Failed to parse message", zap.Error(err))
			response = errorLine(err)
		}

		if _, err := conn.Write(append([]byte(response), '\n')); err != nil {
			s.logger.Debug("Failed to write response", zap.Error(err))
			return
		}
	}
}

// readLine returns the next newline-terminated message, truncated to maxSize
// bytes. The remainder of an over-long line is read and discarded so the
// stream stays framed on the next message. A trailing rune split by the cut
// is dropped so the message stays valid UTF-8.
func readLine(reader *bufio.Reader, maxSize int) (string, error) {
	var line []byte
	for {
		chunk, err := reader.ReadSlice('\n')
		if len(line) <= maxSize {
			line = append(line, chunk...)
		}
		if err == nil || (errors.Is(err, io.EOF) && len(line) > 0) {
			break
		}
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		return "", err
	}

	line = bytes.TrimSuffix(line, []byte{'\n'})
	line = bytes.TrimSuffix(line, []byte{'\r'})
	if len(line) > maxSize {
		line = line[:maxSize]
		for i := 0; i < utf8.UTFMax && len(line) > 0; i++ {
			if r, size := utf8.DecodeLastRune(line); r != utf8.RuneError || size > 1 {
				break
			}
			line = line[:len(line)-1]
		}
	}

	return string(line), nil
}

// errorLine renders err as a single-line JSON object.
func errorLine(err error) string {
	payload, marshalErr := json.Marshal(struct {
		Error string `json:"error"`
	}{Error: err.Error()})
	if marshalErr != nil {
		return `{"error": "internal error"}`
	}
	return string(payload)
}
