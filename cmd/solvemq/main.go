/* Copyright 2019 Comcast Cable Communications Management, LLC

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

  http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package main is the solving service coupled to an MQTT broker.
//
// Ops arrive on the subscription topic(s) as JSON payloads; each
// result is published to the response topic.
//
// The command line args follow those for mosquitto_sub.
package main

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/SakastLord/ideas/service"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

func main() {

	var (
		// Follow mosquitto_sub command line args.

		broker    = flag.String("h", "tcp://localhost", "Broker hostname")
		clientId  = flag.String("i", "solvemq", "Client id")
		port      = flag.Int("p", 1883, "Broker port")
		keepAlive = flag.Int("k", 10, "Keep-alive in seconds")
		userName  = flag.String("u", "", "Username")
		password  = flag.String("P", "", "Password")
		reconnect = flag.Bool("reconnect", false, "Automatically attempt to reconnect")
		clean     = flag.Bool("c", true, "Clean session")
		quiesce   = flag.Int("quiesce", 100, "Disconnection quiescence (in milliseconds)")

		certFilename = flag.String("cert", "", "Optional cert filename")
		keyFilename  = flag.String("key", "", "Optional key filename")
		insecure     = flag.Bool("insecure", false, "Skip broker cert checking")
		caFilename   = flag.String("cafile", "", "Optional CA cert filename")

		subTopic = flag.String("t", "solve/ops", "subscription topic")
		qos      = flag.Int("q", 0, "QoS")
		resTopic = flag.String("res-topic", "solve/results", "response topic")

		dbFile      = flag.String("d", "sessions.db", "storage filename")
		rulesetsDir = flag.String("r", "rulesets", "rulesets directory")
		verbose     = flag.Bool("v", false, "log lots of wonderful things")
	)

	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s, err := service.NewService(ctx, *rulesetsDir, *dbFile)
	if err != nil {
		log.Fatal(err)
	}
	s.Verbose = *verbose
	defer s.Close()

	mqtt.ERROR = log.New(os.Stderr, "mqtt.error", 0)

	opts := mqtt.NewClientOptions()

	*broker = fmt.Sprintf("%s:%d", *broker, *port)
	opts.AddBroker(*broker)
	opts.SetClientID(*clientId)
	opts.SetKeepAlive(time.Second * time.Duration(*keepAlive))

	opts.Username = *userName
	opts.Password = *password
	opts.AutoReconnect = *reconnect
	opts.CleanSession = *clean

	var rootCAs *x509.CertPool
	if *caFilename != "" {
		if rootCAs, _ = x509.SystemCertPool(); rootCAs == nil {
			rootCAs = x509.NewCertPool()
		}
		certs, err := os.ReadFile(*caFilename)
		if err != nil {
			log.Fatalf("couldn't read '%s': %s", *caFilename, err)
		}
		if ok := rootCAs.AppendCertsFromPEM(certs); !ok {
			log.Println("No certs appended, using system certs only")
		}
	}

	var certs []tls.Certificate
	if *keyFilename != "" {
		cert, err := tls.LoadX509KeyPair(*certFilename, *keyFilename)
		if err != nil {
			log.Fatal(err)
		}
		certs = []tls.Certificate{cert}
	}

	tlsConf := &tls.Config{
		InsecureSkipVerify: *insecure,
	}
	if rootCAs != nil {
		tlsConf.RootCAs = rootCAs
	}
	if certs != nil {
		tlsConf.Certificates = certs
	}
	if strings.HasPrefix(*broker, "ssl://") || certs != nil {
		opts.SetTLSConfig(tlsConf)
	}

	opts.OnConnectionLost = func(client mqtt.Client, err error) {
		log.Printf("MQTT connection lost")
	}

	handler := func(client mqtt.Client, msg mqtt.Message) {
		if *verbose {
			log.Printf("incoming: %s %s", msg.Topic(), msg.Payload())
		}

		var op service.Op
		var res *service.Result
		if err := json.Unmarshal(msg.Payload(), &op); err != nil {
			res = service.ErrResult("can't parse: %v", err)
		} else {
			res = s.Do(ctx, &op)
		}

		js, err := json.Marshal(res)
		if err != nil {
			log.Printf("Marshal error %v on %#v", err, res)
			return
		}
		if t := client.Publish(*resTopic, byte(*qos), false, js); t.Wait() && t.Error() != nil {
			log.Printf("publish error %v", t.Error())
		}
	}

	client := mqtt.NewClient(opts)
	if t := client.Connect(); t.Wait() && t.Error() != nil {
		log.Fatal(t.Error())
	}

	if t := client.Subscribe(*subTopic, byte(*qos), handler); t.Wait() && t.Error() != nil {
		log.Fatal(t.Error())
	}
	log.Printf("subscribed to %s; publishing results to %s", *subTopic, *resTopic)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	select {
	case <-ctx.Done():
	case <-sig:
	}

	client.Disconnect(uint(*quiesce))
}
