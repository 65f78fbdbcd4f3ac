// Package web fornece o adapter HTTP (chi + net/http) do servidor.
//
// Rotas:
//
//	GET  /healthz                    liveness, sempre "OK"
//	GET  /                           formulário de contato (HTML estático)
//	POST /subscribe                  formulário {name,email}, só loga
//	POST /submit                     JSON {name,email} (Content-Type: application/json), eco
//	GET  /to-celcius/{fahrenheit}    conversão + incremento de uso em background
//	GET  /to-fahrenheit/{celsius}    idem
//	GET  /stats                      snapshot dos contadores
//	GET  /metrics                    Prometheus (opcional)
//
// Nenhum assinante é guardado: o servidor não tem estado além dos contadores.
// Falhas na contabilidade nunca mudam a resposta de uma conversão.
package web
