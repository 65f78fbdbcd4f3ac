// Package application contém os casos de uso da contagem de uso.
//
// Ele depende apenas do pacote domain e não conhece net/http.
// Ex.: Dispatcher.Dispatch(ev) agenda o incremento em background e retorna na hora.
package application
